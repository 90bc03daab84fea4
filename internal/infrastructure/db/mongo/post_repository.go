package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pressroom/blog-api/internal/core/domain"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Content    string             `bson:"content"`
	Slug       string             `bson:"slug"`
	Author     primitive.ObjectID `bson:"author"`
	AuthorName string             `bson:"author_name,omitempty"` // only present on aggregation output
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		Slug:       d.Slug,
		AuthorID:   d.Author.Hex(),
		AuthorName: d.AuthorName,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

// Create inserts a new post document and sets post.ID.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	author, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return fmt.Errorf("insert post: invalid author id %q: %w", post.AuthorID, err)
	}

	doc := postDoc{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Content:   post.Content,
		Slug:      post.Slug,
		Author:    author,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = doc.ID.Hex()
	return nil
}

// FindByID retrieves a post by its hex id. Malformed ids are reported as not found.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

// List returns all posts, newest first, with author names populated.
func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}, withAuthorName()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toDomain()
	}
	return posts, nil
}

// Update rewrites the mutable fields. The author reference is not part of the update.
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"title":      post.Title,
			"content":    post.Content,
			"slug":       post.Slug,
			"updated_at": post.UpdatedAt,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) findOne(ctx context.Context, match bson.D) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$limit", Value: 1}},
	}, withAuthorName()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find post: %w", err)
		}
		return nil, domain.ErrPostNotFound
	}

	var doc postDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return doc.toDomain(), nil
}

// withAuthorName joins the author's name from the users collection. Only the
// name is projected; nothing else from the user document leaves the database.
// The correlated $lookup form requires MongoDB 5.0+.
func withAuthorName() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}}}},
			}},
			{Key: "as", Value: "author_doc"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "author_name", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$author_doc.name", 0}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "author_doc", Value: 0}}}},
	}
}
