package model

import "time"

// Resume is a resume document owned by exactly one user.
//
// DOCUMENT SHAPE:
// The top-level scalar fields (id, owner, title, thumbnail, timestamps) live
// next to ResumeContent, which holds every nested section. ResumeContent is
// embedded so it flattens into the same JSON object:
//
//	{"id":"…","userId":"…","title":"Dev Resume","thumbnailLink":"",
//	 "template":{…},"profileInfo":{…},"workExperience":[],…}
//
// Storage backends persist ResumeContent as one unit: the sqlite store keeps
// it in a JSON column, the Mongo store inlines it into the document.
type Resume struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Title         string `json:"title"`
	ThumbnailLink string `json:"thumbnailLink"`
	ResumeContent
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResumeContent groups the nested sections of a resume.
type ResumeContent struct {
	Template       Template         `json:"template" bson:"template"`
	ProfileInfo    ProfileInfo      `json:"profileInfo" bson:"profileInfo"`
	ContactInfo    ContactInfo      `json:"contactInfo" bson:"contactInfo"`
	WorkExperience []WorkExperience `json:"workExperience" bson:"workExperience" validate:"max=100,dive"`
	Education      []Education      `json:"education" bson:"education" validate:"max=100,dive"`
	Skills         []Skill          `json:"skills" bson:"skills" validate:"max=100,dive"`
	Projects       []Project        `json:"projects" bson:"projects" validate:"max=100,dive"`
	Certifications []Certification  `json:"certifications" bson:"certifications" validate:"max=100,dive"`
	Languages      []Language       `json:"languages" bson:"languages" validate:"max=100,dive"`
	Interests      []string         `json:"interests" bson:"interests" validate:"max=100,dive,max=500"`
}

type Template struct {
	Theme        string `json:"theme" bson:"theme" validate:"max=500"`
	ColorPalette string `json:"colorPalette" bson:"colorPalette" validate:"max=500"`
}

type ProfileInfo struct {
	ProfileImg        string `json:"profileImg" bson:"profileImg" validate:"max=2048"`
	ProfilePreviewURL string `json:"profilePreviewUrl" bson:"profilePreviewUrl" validate:"max=2048"`
	FullName          string `json:"fullName" bson:"fullName" validate:"max=500"`
	Designation       string `json:"designation" bson:"designation" validate:"max=500"`
	Summary           string `json:"summary" bson:"summary" validate:"max=5000"`
}

type ContactInfo struct {
	Email    string `json:"email" bson:"email" validate:"max=500"`
	Phone    string `json:"phone" bson:"phone" validate:"max=500"`
	Location string `json:"location" bson:"location" validate:"max=500"`
	LinkedIn string `json:"linkedin" bson:"linkedin" validate:"max=500"`
	GitHub   string `json:"github" bson:"github" validate:"max=500"`
	Website  string `json:"website" bson:"website" validate:"max=500"`
}

type WorkExperience struct {
	Company     string `json:"company" bson:"company" validate:"max=500"`
	Role        string `json:"role" bson:"role" validate:"max=500"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"max=500"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"max=500"`
	Description string `json:"description" bson:"description" validate:"max=5000"`
}

type Education struct {
	Degree      string `json:"degree" bson:"degree" validate:"max=500"`
	Institution string `json:"institution" bson:"institution" validate:"max=500"`
	StartDate   string `json:"startDate" bson:"startDate" validate:"max=500"`
	EndDate     string `json:"endDate" bson:"endDate" validate:"max=500"`
}

// Skill is a named skill with a 0–100 proficiency bar.
type Skill struct {
	Name     string `json:"name" bson:"name" validate:"max=500"`
	Progress int    `json:"progress" bson:"progress" validate:"min=0,max=100"`
}

type Project struct {
	Title       string `json:"title" bson:"title" validate:"max=500"`
	Description string `json:"description" bson:"description" validate:"max=5000"`
	GitHub      string `json:"github" bson:"github" validate:"max=500"`
	LiveDemo    string `json:"liveDemo" bson:"liveDemo" validate:"max=500"`
}

type Certification struct {
	Title  string `json:"title" bson:"title" validate:"max=500"`
	Issuer string `json:"issuer" bson:"issuer" validate:"max=500"`
	Year   string `json:"year" bson:"year" validate:"max=500"`
}

// Language is a spoken language with a 0–100 proficiency bar.
type Language struct {
	Name     string `json:"name" bson:"name" validate:"max=500"`
	Progress int    `json:"progress" bson:"progress" validate:"min=0,max=100"`
}

// NewResume returns a resume for ownerID with the given title and every
// section empty. Sequences are empty slices, not nil, so they encode as [].
func NewResume(ownerID, title string) *Resume {
	r := &Resume{
		UserID: ownerID,
		Title:  title,
	}
	r.Normalize()
	return r
}

// Normalize replaces nil sequences with empty ones. Decoders leave a missing
// or null array as nil; clients always expect [].
func (c *ResumeContent) Normalize() {
	if c.WorkExperience == nil {
		c.WorkExperience = []WorkExperience{}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.Certifications == nil {
		c.Certifications = []Certification{}
	}
	if c.Languages == nil {
		c.Languages = []Language{}
	}
	if c.Interests == nil {
		c.Interests = []string{}
	}
}
