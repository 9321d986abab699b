package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// SymptomsColumns holds the columns for the "symptoms" table.
	SymptomsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "code", Type: field.TypeInt, Unique: true},
		{Name: "info", Type: field.TypeString},
		{Name: "image_url", Type: field.TypeString, Default: ""},
	}
	// SymptomsTable holds the schema information for the "symptoms" table.
	SymptomsTable = &schema.Table{
		Name:       "symptoms",
		Columns:    SymptomsColumns,
		PrimaryKey: []*schema.Column{SymptomsColumns[0]},
	}

	// MajorsColumns holds the columns for the "majors" table.
	MajorsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "code", Type: field.TypeInt, Unique: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "solution", Type: field.TypeString, Default: ""},
		{Name: "notes", Type: field.TypeString, Default: ""},
		{Name: "image_url", Type: field.TypeString, Default: ""},
	}
	// MajorsTable holds the schema information for the "majors" table.
	MajorsTable = &schema.Table{
		Name:       "majors",
		Columns:    MajorsColumns,
		PrimaryKey: []*schema.Column{MajorsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "major_position", Unique: false, Columns: []*schema.Column{MajorsColumns[2]}},
		},
	}

	// RulesColumns holds the columns for the "rules" table.
	RulesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "expert_cf", Type: field.TypeFloat64},
		{Name: "major_id", Type: field.TypeInt},
		{Name: "symptom_id", Type: field.TypeInt},
	}
	// RulesTable holds the schema information for the "rules" table.
	RulesTable = &schema.Table{
		Name:       "rules",
		Columns:    RulesColumns,
		PrimaryKey: []*schema.Column{RulesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "rules_majors_rules",
				Columns:    []*schema.Column{RulesColumns[3]},
				RefColumns: []*schema.Column{MajorsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "rules_symptoms_rules",
				Columns:    []*schema.Column{RulesColumns[4]},
				RefColumns: []*schema.Column{SymptomsColumns[0]},
				OnDelete:   schema.Restrict,
			},
		},
		Indexes: []*schema.Index{
			{Name: "rule_major_id_symptom_id", Unique: true, Columns: []*schema.Column{RulesColumns[3], RulesColumns[4]}},
			{Name: "rule_major_id_position", Unique: false, Columns: []*schema.Column{RulesColumns[3], RulesColumns[1]}},
		},
	}

	// ConsultationEventsColumns holds the columns for the "consultation_events" table.
	ConsultationEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "consultation_id", Type: field.TypeString, Unique: true},
		{Name: "requester", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeString},
		{Name: "major_code", Type: field.TypeInt, Nullable: true},
		{Name: "major_name", Type: field.TypeString, Default: ""},
		{Name: "final_cf", Type: field.TypeFloat64, Nullable: true},
		{Name: "supported", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "narrative", Type: field.TypeString, Default: ""},
		{Name: "payload", Type: field.TypeBytes, Nullable: true},
	}
	// ConsultationEventsTable holds the schema information for the "consultation_events" table.
	ConsultationEventsTable = &schema.Table{
		Name:       "consultation_events",
		Columns:    ConsultationEventsColumns,
		PrimaryKey: []*schema.Column{ConsultationEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "consultationevent_timestamp", Unique: false, Columns: []*schema.Column{ConsultationEventsColumns[2]}},
			{Name: "consultationevent_requester", Unique: false, Columns: []*schema.Column{ConsultationEventsColumns[4]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Unique: false, Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SymptomsTable,
		MajorsTable,
		RulesTable,
		ConsultationEventsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	RulesTable.ForeignKeys[0].RefTable = MajorsTable
	RulesTable.ForeignKeys[1].RefTable = SymptomsTable
}

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, Tables...)
}
