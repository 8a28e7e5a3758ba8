package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/booking"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *DB) booking.Repository {
	return &bookingRepository{collection: db.Collection(BookingsCollection)}
}

func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	ownerID, ok := objectID(b.OwnerID)
	if !ok {
		return fmt.Errorf("invalid owner id %q", b.OwnerID)
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	doc := &bookingDocument{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		DogCategory: b.DogCategory,
		Service:     b.Service,
		Price:       b.Price,
		Schedule:    b.Schedule,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	b.ID = doc.ID.Hex()
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, booking.ErrBookingNotFound
	}

	var doc bookingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to booking.Status, updatedAt time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return booking.ErrBookingNotFound
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return booking.ErrStatusChanged
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return booking.ErrBookingNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) CountByOwner(ctx context.Context, ownerID string, statuses []booking.Status) (int64, error) {
	oid, ok := objectID(ownerID)
	if !ok {
		return 0, nil
	}

	filter := bson.M{"owner_id": oid}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statusStrings(statuses)}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) ExistsInWindow(ctx context.Context, ownerID string, from, to time.Time) (bool, error) {
	oid, ok := objectID(ownerID)
	if !ok {
		return false, nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"owner_id": oid,
		"schedule": bson.M{"$gte": from, "$lte": to},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check schedule window: %w", err)
	}
	return count > 0, nil
}

func (r *bookingRepository) List(ctx context.Context, filter *booking.Filter) ([]*booking.Booking, int64, error) {
	if filter == nil {
		filter = &booking.Filter{}
	}

	query, ok := buildBookingQuery(filter)
	if !ok {
		return []*booking.Booking{}, 0, nil
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	sortKey := "created_at"
	if filter.SortBy == booking.SortBySchedule {
		sortKey = "schedule"
	}
	direction := 1
	if filter.Descending() {
		direction = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: direction}, {Key: "_id", Value: direction}})
	if filter.PageSize > 0 {
		opts.SetSkip(int64(filter.Offset())).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*booking.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toEntity())
	}
	return bookings, total, nil
}

// buildBookingQuery returns false when the filter cannot match anything.
func buildBookingQuery(filter *booking.Filter) (bson.M, bool) {
	query := bson.M{}

	if filter.OwnerID != nil {
		oid, ok := objectID(*filter.OwnerID)
		if !ok {
			return nil, false
		}
		query["owner_id"] = oid
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": statusStrings(filter.Statuses)}
	}

	schedule := bson.M{}
	if filter.ScheduleFrom != nil {
		schedule["$gte"] = *filter.ScheduleFrom
	}
	if filter.ScheduleTo != nil {
		schedule["$lt"] = *filter.ScheduleTo
	}
	if len(schedule) > 0 {
		query["schedule"] = schedule
	}

	return query, true
}

func statusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
