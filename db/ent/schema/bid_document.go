package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/db/ent/schema/utils"
)

type BidDocument struct {
	ent.Schema
}

func (BidDocument) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "bid_documents"},
	}
}

func (BidDocument) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("file_path").NotEmpty().Unique(),
		field.String("filename").NotEmpty(),
		field.String("file_hash").NotEmpty(),
		field.Int64("file_size").NonNegative(),
		field.Float("file_mtime"),
		field.String("document_type").
			Validate(utils.EnumValidator(documentTypeNames()...)),
		field.Time("first_seen_at").Default(time.Now),
	}
}

func (BidDocument) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE document -> MANY extraction records
		edge.To("extractions", ExtractionRecord.Type),
	}
}

func (BidDocument) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("file_hash"),
		index.Fields("document_type", "first_seen_at"),
	}
}

func documentTypeNames() []string {
	names := make([]string, 0, len(constants.DocumentTypes))
	for _, t := range constants.DocumentTypes {
		names = append(names, string(t))
	}
	return names
}
