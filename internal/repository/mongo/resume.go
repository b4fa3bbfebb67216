package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

// resumeDocument is the stored shape of a resume: identity and ownership
// at the top, the sections inlined beside them.
type resumeDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	UserID              primitive.ObjectID `bson:"userId"`
	Title               string             `bson:"title"`
	ThumbnailLink       string             `bson:"thumbnailLink"`
	model.ResumeContent `bson:",inline"`
	CreatedAt           time.Time `bson:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt"`
}

func (d *resumeDocument) toModel() *model.Resume {
	r := &model.Resume{
		ID:            d.ID.Hex(),
		UserID:        d.UserID.Hex(),
		Title:         d.Title,
		ThumbnailLink: d.ThumbnailLink,
		ResumeContent: d.ResumeContent,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	r.Normalize()
	return r
}

// ownedFilter matches resume id only when it belongs to ownerID. ok is
// false when either id is malformed, in which case nothing can match.
func ownedFilter(ownerID, id string) (bson.M, bool) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": owner}, true
}

// CreateResume inserts r with a fresh ObjectID and timestamps.
func (db *DB) CreateResume(ctx context.Context, r *model.Resume) error {
	owner, ok := objectID(r.UserID)
	if !ok {
		return fmt.Errorf("mongo: creating resume: invalid owner id %q", r.UserID)
	}

	r.Normalize()
	ts := db.clock.now()
	doc := resumeDocument{
		ID:            primitive.NewObjectID(),
		UserID:        owner,
		Title:         r.Title,
		ThumbnailLink: r.ThumbnailLink,
		ResumeContent: r.ResumeContent,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	if _, err := db.resumes.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting resume: %w", err)
	}

	r.ID = doc.ID.Hex()
	r.CreatedAt = ts
	r.UpdatedAt = ts
	return nil
}

// ListResumesByOwner returns every resume of ownerID, most recently
// updated first.
func (db *DB) ListResumesByOwner(ctx context.Context, ownerID string) ([]model.Resume, error) {
	resumes := []model.Resume{}

	owner, ok := objectID(ownerID)
	if !ok {
		return resumes, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := db.resumes.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing resumes: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc resumeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding resume: %w", err)
		}
		resumes = append(resumes, *doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating resumes: %w", err)
	}

	return resumes, nil
}

// GetResume returns the resume id if, and only if, ownerID owns it.
func (db *DB) GetResume(ctx context.Context, ownerID, id string) (*model.Resume, error) {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return nil, apperror.NotFound("Resume")
	}

	var doc resumeDocument
	if err := db.resumes.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "getting resume "+id)
	}
	return doc.toModel(), nil
}

// UpdateResume $sets every field present in patch in a single
// findOneAndUpdate and returns the document as it is afterwards.
func (db *DB) UpdateResume(ctx context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error) {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return nil, apperror.NotFound("Resume")
	}

	set := patchFields(patch)
	set["updatedAt"] = db.clock.now()

	return db.findOneAndSet(ctx, filter, set, id)
}

// UpdateResumeImages sets the non-empty links and nothing else.
func (db *DB) UpdateResumeImages(ctx context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error) {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return nil, apperror.NotFound("Resume")
	}

	set := bson.M{"updatedAt": db.clock.now()}
	if links.ThumbnailLink != "" {
		set["thumbnailLink"] = links.ThumbnailLink
	}
	if links.ProfilePreviewURL != "" {
		set["profileInfo.profilePreviewUrl"] = links.ProfilePreviewURL
	}

	return db.findOneAndSet(ctx, filter, set, id)
}

// DeleteResume permanently removes the owned resume.
func (db *DB) DeleteResume(ctx context.Context, ownerID, id string) error {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return apperror.NotFound("Resume")
	}

	res, err := db.resumes.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: deleting resume %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Resume")
	}
	return nil
}

func (db *DB) findOneAndSet(ctx context.Context, filter, set bson.M, id string) (*model.Resume, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc resumeDocument
	err := db.resumes.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, notFoundOr(err, "updating resume "+id)
	}
	return doc.toModel(), nil
}

// patchFields lists the top-level fields present in p. Sequences are
// stored as empty arrays, never null.
func patchFields(p *model.ResumePatch) bson.M {
	set := bson.M{}
	if p == nil {
		return set
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.ThumbnailLink != nil {
		set["thumbnailLink"] = *p.ThumbnailLink
	}
	if p.Template != nil {
		set["template"] = *p.Template
	}
	if p.ProfileInfo != nil {
		set["profileInfo"] = *p.ProfileInfo
	}
	if p.ContactInfo != nil {
		set["contactInfo"] = *p.ContactInfo
	}
	if p.WorkExperience != nil {
		set["workExperience"] = nonNil(*p.WorkExperience)
	}
	if p.Education != nil {
		set["education"] = nonNil(*p.Education)
	}
	if p.Skills != nil {
		set["skills"] = nonNil(*p.Skills)
	}
	if p.Projects != nil {
		set["projects"] = nonNil(*p.Projects)
	}
	if p.Certifications != nil {
		set["certifications"] = nonNil(*p.Certifications)
	}
	if p.Languages != nil {
		set["languages"] = nonNil(*p.Languages)
	}
	if p.Interests != nil {
		set["interests"] = nonNil(*p.Interests)
	}
	return set
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// notFoundOr maps "no documents" to apperror.ErrNotFound and wraps anything
// else with op.
func notFoundOr(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("Resume")
	}
	return fmt.Errorf("mongo: %s: %w", op, err)
}
