package mongo

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

	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/query"
)

const indexTimeout = 30 * time.Second

// filterFunc turns an active filter value into a query clause.
type filterFunc func(value string) bson.M

// listSpec describes how a query.Descriptor maps onto one collection.
type listSpec struct {
	// search lists the fields matched by the free-text term.
	search []string
	// filters keyed by descriptor filter name. Unknown keys are ignored.
	filters map[string]filterFunc
	// sortField orders pages; _id breaks ties so paging is stable.
	sortField string
	sortDesc  bool
}

// matchNothing is used for filter values outside the known vocabulary.
var matchNothing = bson.M{"_id": bson.M{"$in": bson.A{}}}

func equals(field string) filterFunc {
	return func(v string) bson.M { return bson.M{field: v} }
}

// equalsFold matches field (or any element of an array field) ignoring case.
func equalsFold(field string) filterFunc {
	return func(v string) bson.M {
		return bson.M{field: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}}
	}
}

// boolean maps two vocabulary values onto a bool field.
func boolean(field, whenTrue, whenFalse string) filterFunc {
	return func(v string) bson.M {
		switch v {
		case whenTrue:
			return bson.M{field: true}
		case whenFalse:
			return bson.M{field: false}
		}
		return matchNothing
	}
}

// buildFilter combines the term and the active filters of d with AND.
func (s listSpec) buildFilter(d query.Descriptor) bson.M {
	var clauses bson.A

	if term := d.NormalizedTerm(); term != "" && len(s.search) > 0 {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		or := make(bson.A, 0, len(s.search))
		for _, field := range s.search {
			or = append(or, bson.M{field: re})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	for key, fn := range s.filters {
		if v, ok := d.Filter(key); ok {
			clauses = append(clauses, fn(v))
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}

func (s listSpec) sort() bson.D {
	dir := 1
	if s.sortDesc {
		dir = -1
	}
	return bson.D{{Key: s.sortField, Value: dir}, {Key: "_id", Value: 1}}
}

// collection is the shared CRUD plumbing of the repositories.
type collection[T any] struct {
	col      *mongo.Collection
	spec     listSpec
	notFound error
	id       func(*T) string
}

func (c *collection[T]) List(ctx context.Context, d query.Descriptor) (*query.Page[T], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := c.spec.buildFilter(d)
	total, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", c.col.Name(), err)
	}

	opts := options.Find().
		SetSort(c.spec.sort()).
		SetSkip(int64(d.Offset())).
		SetLimit(int64(d.PageSize))
	cur, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}

	items := make([]T, 0, d.PageSize)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}

	return &query.Page[T]{Items: items, Total: int(total), Page: d.Page, PageSize: d.PageSize}, nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c *collection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v T
	if err := c.col.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound
		}
		return nil, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	return &v, nil
}

// find returns every document matching filter in sort order.
func (c *collection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := c.col.Find(ctx, filter, options.Find().SetSort(c.spec.sort()))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return out, nil
}

func (c *collection[T]) Create(ctx context.Context, v *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := c.col.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, c.col.Name(), c.id(v))
		}
		return fmt.Errorf("insert %s: %w", c.col.Name(), err)
	}
	return nil
}

// Update replaces the stored document with v.
func (c *collection[T]) Update(ctx context.Context, v *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.ReplaceOne(ctx, bson.M{"_id": c.id(v)}, v)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return c.notFound
	}
	return nil
}

func (c *collection[T]) ensureIndexes(ctx context.Context, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := c.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("indexes %s: %w", c.col.Name(), err)
	}
	return nil
}

// scheduledBetween is the scheduled_at range clause shared by meetings and
// interviews. An unbounded range matches everything.
func scheduledBetween(r domain.DateRange) bson.M {
	if !r.Bounded() {
		return bson.M{}
	}
	return bson.M{"scheduled_at": bson.M{"$gte": r.Start.UTC(), "$lte": r.End.UTC()}}
}
