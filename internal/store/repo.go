package store

import (
	"context"
	"time"

	"github.com/abhisek/jurusan/internal/inference"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// KnowledgeRepo stores the knowledge base: symptoms, majors, and rules.
type KnowledgeRepo interface {
	// Load returns every major with its rules in authored order. It
	// satisfies inference.Loader.
	Load(ctx context.Context) (inference.KnowledgeBase, error)

	// Symptoms returns all symptoms ordered by code.
	Symptoms(ctx context.Context) ([]inference.Symptom, error)

	// Replace atomically swaps the stored knowledge base for kb.
	Replace(ctx context.Context, kb inference.KnowledgeBase) error

	// Empty reports whether no majors are stored.
	Empty(ctx context.Context) (bool, error)
}

// Consultation statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ConsultationEventData captures one consultation run.
type ConsultationEventData struct {
	ConsultationID string
	Requester      string
	Status         string
	MajorCode      *int
	MajorName      string
	FinalCF        *float64
	Supported      bool
	ErrorMessage   string
	Narrative      string
	Audit          ConsultationAudit
}

// ConsultationAudit is the full derivation of a consultation, kept so a
// result can be re-examined later.
type ConsultationAudit struct {
	Evidence        map[int]float64   `msgpack:"evidence"`
	MissingEvidence string            `msgpack:"missing_evidence"`
	Selector        string            `msgpack:"selector"`
	Conclusions     []ConclusionAudit `msgpack:"conclusions"`
}

// ConclusionAudit holds the derived values for one major.
type ConclusionAudit struct {
	MajorCode     int       `msgpack:"major_code"`
	MajorName     string    `msgpack:"major_name"`
	Symptoms      []int     `msgpack:"symptoms"`
	ExpertCF      []float64 `msgpack:"expert_cf"`
	UserCF        []float64 `msgpack:"user_cf"`
	SingleRuleCF  []float64 `msgpack:"single_rule_cf"`
	CombinationCF []float64 `msgpack:"combination_cf"`
	FinalCF       float64   `msgpack:"final_cf"`
}

// ConsultationRecord is a stored consultation.
type ConsultationRecord struct {
	ID int
	ConsultationEventData
	Sequence  int64
	Timestamp time.Time
}

// ConsultationRepo records and queries consultation history.
type ConsultationRepo interface {
	// Append records a consultation and returns its row ID.
	Append(ctx context.Context, data ConsultationEventData) (int, error)

	// Query returns consultations newest first. A non-empty requester
	// restricts results to that requester.
	Query(ctx context.Context, requester string, opts QueryOpts) ([]ConsultationRecord, error)

	// Get returns a consultation by row ID, or nil if not found.
	Get(ctx context.Context, id int) (*ConsultationRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID int
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMUsage aggregates LLM usage for one group (purpose or model).
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns an event by row ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
