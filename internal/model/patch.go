package model

// ResumePatch is the body of a whole-document update.
//
// Each field is a pointer: nil means "not sent, leave as is", non-nil means
// "overwrite this top-level field entirely". There is no merge inside a
// section; sending {"contactInfo":{"email":"a@b.c"}} blanks the other
// contact fields. Ownership, id and timestamps are not patchable.
type ResumePatch struct {
	Title          *string           `json:"title" validate:"omitempty,max=200"`
	ThumbnailLink  *string           `json:"thumbnailLink" validate:"omitempty,max=2048"`
	Template       *Template         `json:"template"`
	ProfileInfo    *ProfileInfo      `json:"profileInfo"`
	ContactInfo    *ContactInfo      `json:"contactInfo"`
	WorkExperience *[]WorkExperience `json:"workExperience" validate:"omitempty,max=100,dive"`
	Education      *[]Education      `json:"education" validate:"omitempty,max=100,dive"`
	Skills         *[]Skill          `json:"skills" validate:"omitempty,max=100,dive"`
	Projects       *[]Project        `json:"projects" validate:"omitempty,max=100,dive"`
	Certifications *[]Certification  `json:"certifications" validate:"omitempty,max=100,dive"`
	Languages      *[]Language       `json:"languages" validate:"omitempty,max=100,dive"`
	Interests      *[]string         `json:"interests" validate:"omitempty,max=100,dive,max=500"`
}

// Apply writes every present field of p onto r.
func (p *ResumePatch) Apply(r *Resume) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.ThumbnailLink != nil {
		r.ThumbnailLink = *p.ThumbnailLink
	}
	if p.Template != nil {
		r.Template = *p.Template
	}
	if p.ProfileInfo != nil {
		r.ProfileInfo = *p.ProfileInfo
	}
	if p.ContactInfo != nil {
		r.ContactInfo = *p.ContactInfo
	}
	if p.WorkExperience != nil {
		r.WorkExperience = cloneSlice(*p.WorkExperience)
	}
	if p.Education != nil {
		r.Education = cloneSlice(*p.Education)
	}
	if p.Skills != nil {
		r.Skills = cloneSlice(*p.Skills)
	}
	if p.Projects != nil {
		r.Projects = cloneSlice(*p.Projects)
	}
	if p.Certifications != nil {
		r.Certifications = cloneSlice(*p.Certifications)
	}
	if p.Languages != nil {
		r.Languages = cloneSlice(*p.Languages)
	}
	if p.Interests != nil {
		r.Interests = cloneSlice(*p.Interests)
	}
	r.Normalize()
}

// ImageLinks is the body of PUT /api/resume/{id}/upload-images. Empty values
// are ignored, so a client can refresh one link without knowing the other.
type ImageLinks struct {
	ThumbnailLink     string `json:"thumbnailLink" validate:"max=2048"`
	ProfilePreviewURL string `json:"profilePreviewUrl" validate:"max=2048"`
}

// Apply sets the non-empty links on r and leaves every other field alone.
func (l ImageLinks) Apply(r *Resume) {
	if l.ThumbnailLink != "" {
		r.ThumbnailLink = l.ThumbnailLink
	}
	if l.ProfilePreviewURL != "" {
		r.ProfileInfo.ProfilePreviewURL = l.ProfilePreviewURL
	}
}

// cloneSlice copies s so the stored resume never aliases request memory.
// A nil input yields an empty, non-nil slice.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
