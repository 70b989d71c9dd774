package employees

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "employees"

type employeeDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FirstName      string             `bson:"first_name"`
	LastName       string             `bson:"last_name"`
	Email          string             `bson:"email"`
	Position       string             `bson:"position"`
	Salary         float64            `bson:"salary"`
	DateOfJoining  time.Time          `bson:"date_of_joining"`
	Department     string             `bson:"department"`
	ProfilePicture *string            `bson:"profile_picture"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d employeeDocument) toEmployee() Employee {
	return Employee{
		ID:             d.ID.Hex(),
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Position:       d.Position,
		Salary:         d.Salary,
		DateOfJoining:  d.DateOfJoining.UTC(),
		Department:     d.Department,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.db.Collection(collectionName)
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("employees_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create employees email index: %w", err)
	}
	return nil
}

func (s *MongoStore) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (s *MongoStore) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func regexContains(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func (s *MongoStore) List(ctx context.Context, filter Filter) ([]Employee, error) {
	query := bson.D{}
	if filter.Department != "" {
		query = append(query, bson.E{Key: "department", Value: regexContains(filter.Department)})
	}
	if filter.Position != "" {
		query = append(query, bson.E{Key: "position", Value: regexContains(filter.Position)})
	}

	cursor, err := s.collection().Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	out := make([]Employee, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toEmployee())
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Employee, error) {
	oid, err := s.objectID(id)
	if err != nil {
		return Employee{}, err
	}
	var doc employeeDocument
	err = s.collection().FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, fmt.Errorf("find employee: %w", err)
	}
	return doc.toEmployee(), nil
}

func (s *MongoStore) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.collection().CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count employees by email: %w", err)
	}
	return count > 0, nil
}

func (s *MongoStore) Insert(ctx context.Context, emp Employee) (string, error) {
	doc := employeeDocument{
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		Email:          emp.Email,
		Position:       emp.Position,
		Salary:         emp.Salary,
		DateOfJoining:  emp.DateOfJoining,
		Department:     emp.Department,
		ProfilePicture: emp.ProfilePicture,
		CreatedAt:      emp.CreatedAt,
		UpdatedAt:      emp.UpdatedAt,
	}
	result, err := s.collection().InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("insert employee: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert employee: unexpected id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, change Change) error {
	oid, err := s.objectID(id)
	if err != nil {
		return err
	}

	set := bson.D{{Key: "updated_at", Value: change.UpdatedAt}}
	patch := change.Patch
	if patch.FirstName != nil {
		set = append(set, bson.E{Key: "first_name", Value: *patch.FirstName})
	}
	if patch.LastName != nil {
		set = append(set, bson.E{Key: "last_name", Value: *patch.LastName})
	}
	if patch.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *patch.Email})
	}
	if patch.Position != nil {
		set = append(set, bson.E{Key: "position", Value: *patch.Position})
	}
	if patch.Salary != nil {
		set = append(set, bson.E{Key: "salary", Value: *patch.Salary})
	}
	if patch.DateOfJoining != nil {
		set = append(set, bson.E{Key: "date_of_joining", Value: *patch.DateOfJoining})
	}
	if patch.Department != nil {
		set = append(set, bson.E{Key: "department", Value: *patch.Department})
	}
	if change.ProfilePicture != nil {
		set = append(set, bson.E{Key: "profile_picture", Value: *change.ProfilePicture})
	}

	result, err := s.collection().UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := s.objectID(id)
	if err != nil {
		return err
	}
	result, err := s.collection().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
