package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

var fencedObject = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*\\})\\s*```")

// ExtractJSON returns the JSON object embedded in a completion: the body of a
// fenced code block when there is one, otherwise the first balanced object in
// the text. When nothing decodes it falls back to the span from the first '{'
// to the last '}'. Text without braces is returned unchanged.
func ExtractJSON(text string) string {
	if objs := embeddedObjects(text); len(objs) > 0 {
		return objs[0]
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// embeddedObjects lists the fenced object, if any, then every top-level JSON
// object found by scanning from each '{'. Braces in prose that do not start a
// valid object are skipped.
func embeddedObjects(text string) []string {
	var objs []string
	if m := fencedObject.FindStringSubmatch(text); m != nil {
		objs = append(objs, m[1])
	}

	for i := 0; i < len(text); i++ {
		j := strings.IndexByte(text[i:], '{')
		if j < 0 {
			break
		}
		i += j

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		objs = append(objs, string(raw))
		i += len(raw) - 1
	}
	return objs
}

// DecodePlan turns completion text into a plan. Each embedded object is tried
// in order and the first one that decodes into a well-formed plan wins. Any
// other outcome is ErrMalformedCompletion; the JSON is never repaired.
func DecodePlan(text string) (*domain.Plan, error) {
	candidates := embeddedObjects(text)
	if len(candidates) == 0 {
		candidates = []string{ExtractJSON(text)}
	}

	var firstErr error
	for _, c := range candidates {
		plan, err := decodeCandidate(c)
		if err == nil {
			return plan, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, firstErr)
}

func decodeCandidate(text string) (*domain.Plan, error) {
	var plan domain.Plan
	if err := json.NewDecoder(strings.NewReader(text)).Decode(&plan); err != nil {
		return nil, err
	}

	normalize(&plan)

	if err := plan.ValidateShape(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// normalize fills the fields models tend to leave out.
func normalize(p *domain.Plan) {
	if p.ID == "" {
		p.ID = domain.NewPlanID()
	}
	for i := range p.Months {
		m := &p.Months[i]
		if m.Index == 0 {
			m.Index = i + 1
		}
		for j := range m.Tasks {
			if m.Tasks[j].Status == "" {
				m.Tasks[j].Status = domain.TaskNotStarted
			}
		}
	}
}
