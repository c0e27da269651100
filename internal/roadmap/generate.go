// Package roadmap provides the roadmap oracle client: it turns a job title and
// skill-gap context into a structured preparation roadmap (phase list plus
// mind-map tree). Roadmap generation has no automatic retry; callers surface
// failures immediately.
package roadmap

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/rolecoach/rolecoach/internal/llm"
	"github.com/rolecoach/rolecoach/internal/prompts"
	"github.com/rolecoach/rolecoach/internal/schemas"
	"github.com/rolecoach/rolecoach/internal/types"
)

// Oracle is the roadmap oracle client backed by an LLM.
type Oracle struct {
	client llm.Client
}

// NewOracle creates a roadmap oracle over an LLM client.
func NewOracle(client llm.Client) *Oracle {
	return &Oracle{client: client}
}

// Generate produces a complete roadmap for the request. The returned roadmap
// is normalized: every phase, task, and mind-map node has an ID, task statuses
// are valid, the request dates are stamped on, and the mind map is a tree.
func (o *Oracle) Generate(ctx context.Context, req types.RoadmapRequest) (*types.Roadmap, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	targetDate := req.TargetDate
	if targetDate == "" {
		targetDate = "ASAP"
	}
	template := prompts.MustGet("roadmap.json", "generate-roadmap")
	prompt := prompts.Format(template, map[string]string{
		"JobTitle":      req.JobTitle,
		"MissingSkills": strings.Join(req.MissingSkills, ", "),
		"TargetDate":    targetDate,
	})

	responseText, err := o.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate roadmap", Cause: err}
	}

	road, err := ParseRoadmapResponse(responseText)
	if err != nil {
		return nil, err
	}

	road.StartDate = req.StartDate
	road.InterviewDate = req.TargetDate
	if road.JobTitle == "" {
		road.JobTitle = req.JobTitle
	}
	return road, nil
}

// ParseRoadmapResponse extracts, schema-validates, decodes, and normalizes a
// roadmap response.
func ParseRoadmapResponse(text string) (*types.Roadmap, error) {
	cleaned := llm.ExtractJSONBlock(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, &ParseError{Message: "empty response from roadmap engine"}
	}

	if err := schemas.ValidateBytes(schemas.Roadmap, []byte(cleaned)); err != nil {
		return nil, &ParseError{Message: "response failed schema validation", Cause: err}
	}

	var road types.Roadmap
	if err := json.Unmarshal([]byte(cleaned), &road); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	if err := Normalize(&road); err != nil {
		return nil, err
	}
	return &road, nil
}

// Normalize fills missing identifiers, defaults task statuses to todo, and
// verifies the mind map is acyclic.
func Normalize(road *types.Roadmap) error {
	for pi := range road.Phases {
		phase := &road.Phases[pi]
		if phase.ID == "" {
			phase.ID = uuid.NewString()
		}
		if phase.Goals == nil {
			phase.Goals = []string{}
		}
		for ti := range phase.Tasks {
			task := &phase.Tasks[ti]
			if task.ID == "" {
				task.ID = uuid.NewString()
			}
			if !task.Status.IsValid() {
				task.Status = types.TaskTodo
			}
			if task.ActionItems == nil {
				task.ActionItems = []string{}
			}
		}
	}

	if road.MindMap != nil {
		seen := make(map[*types.MindMapNode]bool)
		if err := normalizeNode(road.MindMap, seen); err != nil {
			return err
		}
	}
	return nil
}

// normalizeNode assigns IDs and detects cycles via pointer identity.
func normalizeNode(node *types.MindMapNode, seen map[*types.MindMapNode]bool) error {
	if seen[node] {
		return &ParseError{Message: "mind map contains a cycle"}
	}
	seen[node] = true

	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if err := normalizeNode(child, seen); err != nil {
			return err
		}
	}
	return nil
}
