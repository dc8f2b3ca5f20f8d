package mcp

import (
	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// Session is the persisted pipeline state for one interactive run.
// Field names mirror the pipeline's state keys so a serialized session
// reads like the batch runner's final state.
type Session struct {
	CompanyInfo     brand.Record       `json:"company_info"`
	Strategy        string             `json:"summary_plan_audience"`
	UserDecision    string             `json:"user_decision"`
	ConceptsRaw     string             `json:"creative_director_node"`
	Concepts        []pipeline.Concept `json:"structured_concepts"`
	SelectedConcept string             `json:"selected_concept"`
	Feedback        string             `json:"br_feedback_result"`
	UserHappy       bool               `json:"user_happy"`
	Script          pipeline.Script    `json:"scripts_created"`
	Themes          pipeline.Themes    `json:"global_themes_and_figures"`
	FramePrompts    []string           `json:"frame_prompts"`
}

// state rebuilds a workflow state from the session so individual
// pipeline stages can run against it.
func (s Session) state() *workflow.State {
	st := workflow.NewState()
	workflow.Set(st, pipeline.KeyCompanyInfo, s.CompanyInfo)
	workflow.Set(st, pipeline.KeyStrategy, s.Strategy)
	workflow.Set(st, pipeline.KeyUserDecision, s.UserDecision)
	workflow.Set(st, pipeline.KeyConceptsRaw, s.ConceptsRaw)
	workflow.Set(st, pipeline.KeyConcepts, s.Concepts)
	workflow.Set(st, pipeline.KeySelectedConcept, s.SelectedConcept)
	workflow.Set(st, pipeline.KeyFeedback, s.Feedback)
	workflow.Set(st, pipeline.KeyUserHappy, s.UserHappy)
	workflow.Set(st, pipeline.KeyScript, s.Script)
	workflow.Set(st, pipeline.KeyThemes, s.Themes)
	workflow.Set(st, pipeline.KeyFramePrompts, s.FramePrompts)
	return st
}

// capture copies stage outputs back from a workflow state.
func (s *Session) capture(st *workflow.State) {
	s.CompanyInfo = workflow.GetOr(st, pipeline.KeyCompanyInfo, s.CompanyInfo)
	s.Strategy = workflow.GetOr(st, pipeline.KeyStrategy, s.Strategy)
	s.UserDecision = workflow.GetOr(st, pipeline.KeyUserDecision, s.UserDecision)
	s.ConceptsRaw = workflow.GetOr(st, pipeline.KeyConceptsRaw, s.ConceptsRaw)
	s.Concepts = workflow.GetOr(st, pipeline.KeyConcepts, s.Concepts)
	s.SelectedConcept = workflow.GetOr(st, pipeline.KeySelectedConcept, s.SelectedConcept)
	s.Feedback = workflow.GetOr(st, pipeline.KeyFeedback, s.Feedback)
	s.UserHappy = workflow.GetOr(st, pipeline.KeyUserHappy, s.UserHappy)
	s.Script = workflow.GetOr(st, pipeline.KeyScript, s.Script)
	s.Themes = workflow.GetOr(st, pipeline.KeyThemes, s.Themes)
	s.FramePrompts = workflow.GetOr(st, pipeline.KeyFramePrompts, s.FramePrompts)
}
