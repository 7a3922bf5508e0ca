package evaluation

import (
	"slices"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Options configures a Harness.
type Options struct {
	// Scenarios are the conversation flows replayed through the
	// classifier. Defaults to DefaultScenarios().
	Scenarios []Scenario

	// EntityCases are the extraction probes. Defaults to
	// DefaultEntityCases().
	EntityCases []EntityCase

	// Logger receives the evaluation summary lines.
	Logger logging.Logger
}

// Harness replays scripted scenarios through the NLP components and
// reports how they did.
type Harness struct {
	scenarios   []Scenario
	entityCases []EntityCase
	logger      logging.Logger
}

// New creates a Harness preloaded with the default scenarios and
// entity cases.
func New(optFns ...func(o *Options)) *Harness {
	opts := Options{
		Scenarios:   DefaultScenarios(),
		EntityCases: DefaultEntityCases(),
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Harness{
		scenarios:   opts.Scenarios,
		entityCases: opts.EntityCases,
		logger:      opts.Logger,
	}
}

// IntentOutcome is the judgement of one scripted turn.
type IntentOutcome struct {
	Scenario   string  `json:"scenario"`
	Input      string  `json:"input"`
	Want       string  `json:"want"`
	Got        string  `json:"got"`
	Confidence float64 `json:"confidence"`
	Correct    bool    `json:"correct"`
}

// IntentReport aggregates the classifier's performance over all
// scenarios. A turn is correct when the predicted intent matches and
// its confidence clears the turn's floor.
type IntentReport struct {
	Accuracy       float64         `json:"accuracy"`
	Correct        int             `json:"correct"`
	Total          int             `json:"total"`
	MeanConfidence float64         `json:"meanConfidence"`
	Outcomes       []IntentOutcome `json:"outcomes"`
}

// EntityOutcome is the result of one extraction probe. FoundTypes
// lists the type of every extracted entity in offset order; Missing
// lists the wanted types that never showed up.
type EntityOutcome struct {
	Text       string   `json:"text"`
	WantTypes  []string `json:"wantTypes,omitempty"`
	FoundTypes []string `json:"foundTypes"`
	Missing    []string `json:"missing,omitempty"`
}

// EntityReport aggregates the extractor's performance over all cases.
type EntityReport struct {
	Cases      int             `json:"cases"`
	TotalWant  int             `json:"totalWant"`
	TotalFound int             `json:"totalFound"`
	Outcomes   []EntityOutcome `json:"outcomes"`
}

// Summary condenses a full evaluation run into the two headline
// numbers.
type Summary struct {
	IntentAccuracy float64 `json:"intentAccuracy"`
	EntitiesFound  int     `json:"entitiesFound"`
}

// Report is the result of a full evaluation run.
type Report struct {
	Intents  IntentReport `json:"intents"`
	Entities EntityReport `json:"entities"`
	Summary  Summary      `json:"summary"`
}

// EvaluateIntents replays every scenario turn through c and scores the
// predictions.
func (h *Harness) EvaluateIntents(c core.Classifier) IntentReport {
	report := IntentReport{Outcomes: []IntentOutcome{}}

	var confidenceSum float64

	for _, scenario := range h.scenarios {
		for _, turn := range scenario.Turns {
			result := c.Classify(turn.Input, nil)

			correct := result.Name == turn.WantIntent && result.Confidence >= turn.MinConfidence
			if correct {
				report.Correct++
			}

			report.Total++
			confidenceSum += result.Confidence

			report.Outcomes = append(report.Outcomes, IntentOutcome{
				Scenario:   scenario.Name,
				Input:      turn.Input,
				Want:       turn.WantIntent,
				Got:        result.Name,
				Confidence: result.Confidence,
				Correct:    correct,
			})
		}
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
		report.MeanConfidence = confidenceSum / float64(report.Total)
	}

	h.logger.Info("intent evaluation complete", "accuracy", report.Accuracy, "correct", report.Correct, "total", report.Total)

	return report
}

// EvaluateEntities runs every probe through e and reports what was
// found.
func (h *Harness) EvaluateEntities(e core.Extractor) EntityReport {
	report := EntityReport{
		Cases:    len(h.entityCases),
		Outcomes: []EntityOutcome{},
	}

	for _, c := range h.entityCases {
		entities := e.Extract(c.Text, "")

		found := make([]string, 0, len(entities))
		for _, ent := range entities {
			found = append(found, ent.Type)
		}

		var missing []string
		for _, want := range c.WantTypes {
			if !slices.Contains(found, want) {
				missing = append(missing, want)
			}
		}

		report.TotalWant += len(c.WantTypes)
		report.TotalFound += len(entities)

		report.Outcomes = append(report.Outcomes, EntityOutcome{
			Text:       c.Text,
			WantTypes:  c.WantTypes,
			FoundTypes: found,
			Missing:    missing,
		})
	}

	h.logger.Info("entity evaluation complete", "found", report.TotalFound, "cases", report.Cases)

	return report
}

// Run evaluates both components and bundles the reports.
func (h *Harness) Run(c core.Classifier, e core.Extractor) Report {
	intents := h.EvaluateIntents(c)
	entities := h.EvaluateEntities(e)

	return Report{
		Intents:  intents,
		Entities: entities,
		Summary: Summary{
			IntentAccuracy: intents.Accuracy,
			EntitiesFound:  entities.TotalFound,
		},
	}
}
