package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asilitravel/safarihub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Identity is the slice of an external identity the profile store needs
// to materialize a record: the provider's stable subject id plus
// whatever display fields the provider returned.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

var (
	// ErrDuplicateEmail is returned when creating a profile with an
	// email that already belongs to another profile.
	ErrDuplicateEmail = errors.New("a profile with this email already exists")
	errBadRole        = errors.New(`role must be "member"|"admin"|"super_admin"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// EnsureIndexes creates the unique subject and email indexes. The
// subject index is what makes EnsureFromIdentity idempotent under
// concurrent sign-ins.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subject", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_profile_subject"),
		},
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_profile_email_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySubject loads a profile by the identity provider's stable id.
// Returns (nil, nil) when no profile exists; absence is a normal result.
func (s *Store) GetBySubject(ctx context.Context, subject string) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"subject": subject}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByEmail looks up a profile by case-insensitive email.
// Returns (nil, nil) when no profile exists.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new profile after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.ID = primitive.NewObjectID()
	p.Email = strings.TrimSpace(p.Email)
	p.EmailCI = text.Fold(p.Email)
	if p.DisplayName == "" {
		p.DisplayName = emailLocalPart(p.Email)
	}
	if p.Role == "" {
		p.Role = models.RoleMember
	}
	switch p.Role {
	case models.RoleMember, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return models.Profile{}, errBadRole
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateEmail
		}
		return models.Profile{}, err
	}
	return p, nil
}

// EnsureFromIdentity returns the profile for an identity, creating a
// minimal member profile the first time the identity is seen. The call
// is idempotent: a concurrent duplicate insert trips the unique subject
// index and is resolved by re-reading: "already exists" is success,
// never an error surfaced to the user.
func (s *Store) EnsureFromIdentity(ctx context.Context, ident Identity) (*models.Profile, error) {
	existing, err := s.GetBySubject(ctx, ident.Subject)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.Create(ctx, models.Profile{
		Subject:     ident.Subject,
		Email:       ident.Email,
		DisplayName: ident.Name,
		Role:        models.RoleMember,
	})
	if err == nil {
		return &created, nil
	}
	if errors.Is(err, ErrDuplicateEmail) || wafflemongo.IsDup(err) {
		// Lost the race; the winner's record is ours to use.
		return s.GetBySubject(ctx, ident.Subject)
	}
	return nil, err
}

// UpdateRole changes a profile's role.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	switch role {
	case models.RoleMember, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		return errBadRole
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetPasswordHash stores a bcrypt hash for password sign-in.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// PromoteByEmail sets the super_admin role on the profile with the given
// email, if one exists. Used by the startup bootstrap.
func (s *Store) PromoteByEmail(ctx context.Context, email, role string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"email_ci": text.Fold(email)},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	return err
}

// Count returns the number of profiles. Used by the admin dashboard.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
