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

	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

const collectionListings = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

type mongoApplication struct {
	Applicant primitive.ObjectID `bson:"applicant"`
	Status    string             `bson:"status"`
	AppliedAt time.Time          `bson:"applied_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// mongoListing is the stored document. AcceptedCount mirrors the number of
// Accepted applications so capacity can be checked inside a single update.
type mongoListing struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	PostedBy        primitive.ObjectID `bson:"posted_by"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	WorkType        string             `bson:"work_type"`
	BuildingType    string             `bson:"building_type"`
	Floors          int                `bson:"floors"`
	AreaSqFt        int                `bson:"area_sq_ft"`
	City            string             `bson:"city"`
	Area            string             `bson:"area"`
	Landmark        string             `bson:"landmark,omitempty"`
	WorkersRequired int                `bson:"workers_required"`
	SkillLevel      string             `bson:"skill_level"`
	WagePerDay      int                `bson:"wage_per_day"`
	PaymentType     string             `bson:"payment_type"`
	FoodProvided    bool               `bson:"food_provided"`
	StartDate       time.Time          `bson:"start_date"`
	DurationDays    int                `bson:"duration_days"`
	IsActive        bool               `bson:"is_active"`
	Applications    []mongoApplication `bson:"applications"`
	AcceptedCount   int                `bson:"accepted_count"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toListingDoc(l *domain.Listing) (*mongoListing, error) {
	postedBy, err := primitive.ObjectIDFromHex(l.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("posted_by %q: %w", l.PostedBy, err)
	}
	doc := &mongoListing{
		PostedBy:        postedBy,
		Title:           l.Title,
		Description:     l.Description,
		WorkType:        string(l.WorkType),
		BuildingType:    string(l.BuildingType),
		Floors:          l.Floors,
		AreaSqFt:        l.AreaSqFt,
		City:            l.City,
		Area:            l.Area,
		Landmark:        l.Landmark,
		WorkersRequired: l.WorkersRequired,
		SkillLevel:      string(l.SkillLevel),
		WagePerDay:      l.WagePerDay,
		PaymentType:     string(l.PaymentType),
		FoodProvided:    l.FoodProvided,
		StartDate:       l.StartDate.UTC(),
		DurationDays:    l.DurationDays,
		IsActive:        l.IsActive,
		Applications:    make([]mongoApplication, 0, len(l.Applications)),
		AcceptedCount:   l.AcceptedCount(),
		CreatedAt:       l.CreatedAt.UTC(),
		UpdatedAt:       l.UpdatedAt.UTC(),
	}
	for _, a := range l.Applications {
		applicant, err := primitive.ObjectIDFromHex(a.Applicant)
		if err != nil {
			return nil, fmt.Errorf("applicant %q: %w", a.Applicant, err)
		}
		doc.Applications = append(doc.Applications, mongoApplication{
			Applicant: applicant,
			Status:    string(a.Status),
			AppliedAt: a.AppliedAt.UTC(),
			UpdatedAt: a.UpdatedAt.UTC(),
		})
	}
	return doc, nil
}

func (d *mongoListing) toDomain() *domain.Listing {
	l := &domain.Listing{
		ID:              d.ID.Hex(),
		PostedBy:        d.PostedBy.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		WorkType:        domain.WorkType(d.WorkType),
		BuildingType:    domain.BuildingType(d.BuildingType),
		Floors:          d.Floors,
		AreaSqFt:        d.AreaSqFt,
		City:            d.City,
		Area:            d.Area,
		Landmark:        d.Landmark,
		WorkersRequired: d.WorkersRequired,
		SkillLevel:      domain.SkillLevel(d.SkillLevel),
		WagePerDay:      d.WagePerDay,
		PaymentType:     domain.PaymentType(d.PaymentType),
		FoodProvided:    d.FoodProvided,
		StartDate:       d.StartDate.UTC(),
		DurationDays:    d.DurationDays,
		IsActive:        d.IsActive,
		Applications:    make([]domain.Application, 0, len(d.Applications)),
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	for _, a := range d.Applications {
		l.Applications = append(l.Applications, domain.Application{
			Applicant: a.Applicant.Hex(),
			Status:    domain.ApplicationStatus(a.Status),
			AppliedAt: a.AppliedAt.UTC(),
			UpdatedAt: a.UpdatedAt.UTC(),
		})
	}
	return l
}

// Create inserts a new listing document.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toListingDoc(l)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a listing; malformed ids are reported as not found.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc mongoListing
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns the listings matching filter, newest first.
func (r *ListingRepository) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q, ok := listFilter(filter)
	if !ok {
		return []*domain.Listing{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}

	var docs []mongoListing
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// UpdateDetails sets the descriptive fields. The filter on accepted_count
// keeps WorkersRequired from dropping below the accepted workers even if an
// accept lands between the read and this write.
func (r *ListingRepository) UpdateDetails(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}

	filter := bson.M{
		"_id":            oid,
		"accepted_count": bson.M{"$lte": l.WorkersRequired},
	}
	update := bson.M{"$set": bson.M{
		"title":            l.Title,
		"description":      l.Description,
		"work_type":        string(l.WorkType),
		"building_type":    string(l.BuildingType),
		"floors":           l.Floors,
		"area_sq_ft":       l.AreaSqFt,
		"city":             l.City,
		"area":             l.Area,
		"landmark":         l.Landmark,
		"workers_required": l.WorkersRequired,
		"skill_level":      string(l.SkillLevel),
		"wage_per_day":     l.WagePerDay,
		"payment_type":     string(l.PaymentType),
		"food_provided":    l.FoodProvided,
		"start_date":       l.StartDate.UTC(),
		"duration_days":    l.DurationDays,
		"is_active":        l.IsActive,
		"updated_at":       l.UpdatedAt.UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrListingNotFound
		}
		return domain.ErrCapacityBelowAccepted
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// AddApplication pushes app unless the worker already applied or the listing
// is closed.
func (r *ListingRepository) AddApplication(ctx context.Context, listingID string, app domain.Application) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return false, domain.ErrListingNotFound
	}
	worker, err := primitive.ObjectIDFromHex(app.Applicant)
	if err != nil {
		return false, fmt.Errorf("applicant %q: %w", app.Applicant, err)
	}

	update := bson.M{
		"$push": bson.M{"applications": mongoApplication{
			Applicant: worker,
			Status:    string(app.Status),
			AppliedAt: app.AppliedAt.UTC(),
			UpdatedAt: app.UpdatedAt.UTC(),
		}},
		"$set": bson.M{"updated_at": app.AppliedAt.UTC()},
	}

	res, err := r.col.UpdateOne(ctx, applyFilter(oid, worker), update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SetApplicationStatus performs the guarded status change in one write.
func (r *ListingRepository) SetApplicationStatus(ctx context.Context, listingID, workerID string, from, to domain.ApplicationStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return false, domain.ErrListingNotFound
	}
	worker, err := primitive.ObjectIDFromHex(workerID)
	if err != nil {
		return false, domain.ErrApplicationNotFound
	}

	res, err := r.col.UpdateOne(ctx, transitionFilter(oid, worker, from, to), transitionUpdate(to, time.Now().UTC()))
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "posted_by", Value: 1}}},
		{Keys: bson.D{{Key: "applications.applicant", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "work_type", Value: 1}, {Key: "is_active", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// listFilter builds the query for f. ok is false when an id in f is
// malformed and nothing can match.
func listFilter(f ports.ListingFilter) (q bson.M, ok bool) {
	q = bson.M{}
	if f.PostedBy != "" {
		oid, err := primitive.ObjectIDFromHex(f.PostedBy)
		if err != nil {
			return nil, false
		}
		q["posted_by"] = oid
	}
	if f.Applicant != "" {
		oid, err := primitive.ObjectIDFromHex(f.Applicant)
		if err != nil {
			return nil, false
		}
		q["applications.applicant"] = oid
	}
	if f.City != "" {
		q["city"] = f.City
	}
	if f.WorkType != "" {
		q["work_type"] = string(f.WorkType)
	}
	if f.ActiveOnly {
		q["is_active"] = true
	}
	return q, true
}

func applyFilter(listing, worker primitive.ObjectID) bson.M {
	return bson.M{
		"_id":                    listing,
		"is_active":              true,
		"applications.applicant": bson.M{"$ne": worker},
	}
}

// transitionFilter matches the listing only while the worker's application
// is still in `from` and, for accepts, while a slot is free.
func transitionFilter(listing, worker primitive.ObjectID, from, to domain.ApplicationStatus) bson.M {
	filter := bson.M{
		"_id": listing,
		"applications": bson.M{"$elemMatch": bson.M{
			"applicant": worker,
			"status":    string(from),
		}},
	}
	if to == domain.StatusAccepted {
		filter["$expr"] = bson.M{"$lt": bson.A{"$accepted_count", "$workers_required"}}
	}
	return filter
}

func transitionUpdate(to domain.ApplicationStatus, now time.Time) bson.M {
	update := bson.M{"$set": bson.M{
		"applications.$.status":     string(to),
		"applications.$.updated_at": now,
		"updated_at":                now,
	}}
	if to == domain.StatusAccepted {
		update["$inc"] = bson.M{"accepted_count": 1}
	}
	return update
}
