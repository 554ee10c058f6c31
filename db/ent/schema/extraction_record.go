package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/db/ent/schema/utils"
)

type ExtractionRecord struct{ ent.Schema }

func (ExtractionRecord) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "extraction_records"},
	}
}

func (ExtractionRecord) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		// explicit FK so indexes can reference it
		field.UUID("document_id", uuid.UUID{}),
		field.String("status").
			Validate(utils.EnumValidator(outcomeStatusNames()...)),
		field.String("extraction_method").Optional().Nillable(),
		field.Float32("traditional_confidence").Optional().Nillable(),
		field.Bool("needs_ocr").Default(false),
		field.Bool("ocr_applied").Default(false),
		field.String("error_message").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Float("processing_time").Optional(),
		field.JSON("data", json.RawMessage{}).Optional(),
		field.JSON("metadata", json.RawMessage{}).Optional(),
		field.Time("started_at").Default(time.Now),
		field.Time("finished_at").Optional().Nillable(),
	}
}

func (ExtractionRecord) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", BidDocument.Type).
			Ref("extractions").
			Field("document_id").
			Unique().
			Required(),
	}
}

func (ExtractionRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id", "started_at"),
		index.Fields("status"),
	}
}

func outcomeStatusNames() []string {
	statuses := []constants.OutcomeStatus{
		constants.StatusSuccess,
		constants.StatusPartial,
		constants.StatusFailed,
		constants.StatusSkipped,
	}
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return names
}
