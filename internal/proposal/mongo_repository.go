package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/proposals-lambda/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	proposalsCollection = "proposals"
	countersCollection  = "counters"
)

// titleCollation compares titles at primary strength: base letters only.
var titleCollation = &options.Collation{Locale: "en", Strength: 1}

type proposalDocument struct {
	ID         string     `bson:"_id"`
	Ticket     int64      `bson:"ticket"`
	User       string     `bson:"user"`
	Title      string     `bson:"title"`
	Text       string     `bson:"text"`
	Items      string     `bson:"items"`
	Cost       float64    `bson:"cost"`
	StartDate  *time.Time `bson:"startDate,omitempty"`
	Remark     *string    `bson:"remark,omitempty"`
	Completed  bool       `bson:"completed"`
	ProposedTo string     `bson:"proposedTo"`
	ProposedBy string     `bson:"proposedBy"`
	CreatedAt  time.Time  `bson:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

type mongoRepository struct {
	proposals *mongo.Collection
	counters  *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) ProposalRepository {
	return &mongoRepository{
		proposals: db.Collection(proposalsCollection),
		counters:  db.Collection(countersCollection),
	}
}

// EnsureIndexes installs the collated unique title index and the ticket index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(proposalsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(titleCollation).SetName("title_unique_ci"),
		},
		{
			Keys:    bson.D{{Key: "ticket", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ticket_unique"),
		},
	})
	return err
}

func (r *mongoRepository) ListAll(ctx context.Context) ([]Proposal, error) {
	cur, err := r.proposals.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "ticket", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []proposalDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	proposals := make([]Proposal, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toProposal()
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, *p)
	}
	return proposals, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, options.FindOne())
}

func (r *mongoRepository) FindByTitle(ctx context.Context, title string) (*Proposal, error) {
	return r.findOne(ctx, bson.M{"title": title}, options.FindOne().SetCollation(titleCollation))
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*Proposal, error) {
	var doc proposalDocument
	if err := r.proposals.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return doc.toProposal()
}

func (r *mongoRepository) Create(ctx context.Context, p *Proposal) error {
	ticket, err := r.nextSequence(ctx, ticketCounter)
	if err != nil {
		return fmt.Errorf("next ticket: %w", err)
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.Ticket = ticket
	p.TitleKey = TitleKey(p.Title)
	p.CreatedAt, p.UpdatedAt = now, now

	if _, err := r.proposals.InsertOne(ctx, newProposalDocument(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

func (r *mongoRepository) Update(ctx context.Context, p *Proposal) error {
	p.TitleKey = TitleKey(p.Title)
	p.UpdatedAt = time.Now().UTC()

	res, err := r.proposals.ReplaceOne(ctx, bson.M{"_id": p.ID.String()}, newProposalDocument(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	var doc proposalDocument
	if err := r.proposals.FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return doc.toProposal()
}

func (r *mongoRepository) nextSequence(ctx context.Context, name string) (int64, error) {
	var c counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}

func newProposalDocument(p *Proposal) proposalDocument {
	doc := proposalDocument{
		ID:         p.ID.String(),
		Ticket:     p.Ticket,
		User:       p.UserID.String(),
		Title:      p.Title,
		Text:       p.Text,
		Items:      p.Items,
		Cost:       p.Cost,
		Remark:     p.Remark,
		Completed:  p.Completed,
		ProposedTo: p.ProposedTo,
		ProposedBy: p.ProposedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.StartDate != nil && !p.StartDate.IsZero() {
		t := p.StartDate.UTC()
		doc.StartDate = &t
	}
	return doc
}

func (doc proposalDocument) toProposal() (*Proposal, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("proposal %q: %w", doc.ID, err)
	}
	userID, err := uuid.Parse(doc.User)
	if err != nil {
		return nil, fmt.Errorf("proposal %q user %q: %w", doc.ID, doc.User, err)
	}

	p := &Proposal{
		ID:         id,
		Ticket:     doc.Ticket,
		UserID:     userID,
		Title:      doc.Title,
		TitleKey:   TitleKey(doc.Title),
		Text:       doc.Text,
		Items:      doc.Items,
		Cost:       doc.Cost,
		Remark:     doc.Remark,
		Completed:  doc.Completed,
		ProposedTo: doc.ProposedTo,
		ProposedBy: doc.ProposedBy,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.StartDate != nil {
		d := util.Date{Time: doc.StartDate.UTC()}
		p.StartDate = &d
	}
	return p, nil
}
