package pipeline

import (
	"context"

	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

// Stage names, matching the graph node names.
const (
	StageResearch         = "research"
	StageBrandStrategist  = "brand_strategist"
	StageUserDecision     = "user_feedback_yes_no"
	StageCreativeDirector = "creative_director"
	StageFeedback         = "br_feedback"
	StageUserHappiness    = "user_feedback_loop"
	StageSelectConcept    = "select_concept"
	StageScripts          = "creation_of_scripts"
	StageGlobalThemes     = "generate_global_themes"
	StageFramePrompts     = "generate_frame_prompts"
)

// Typed state keys. Each stage merges its outputs under these keys;
// nothing ever deletes a key.
var (
	KeyCompanyInfo     = workflow.NewKey[brand.Record]("company_info")
	KeyStrategy        = workflow.NewKey[string]("summary_plan_audience")
	KeyUserDecision    = workflow.NewKey[string]("user_decision")
	KeyConceptsRaw     = workflow.NewKey[string]("creative_director_node")
	KeyConcepts        = workflow.NewKey[[]Concept]("structured_concepts")
	KeySelectedConcept = workflow.NewKey[string]("selected_concept")
	KeyFeedback        = workflow.NewKey[string]("br_feedback_result")
	KeyUserHappy       = workflow.NewKey[bool]("user_happy")
	KeyScript          = workflow.NewKey[Script]("scripts_created")
	KeyThemes          = workflow.NewKey[Themes]("global_themes_and_figures")
	KeyFramePrompts    = workflow.NewKey[[]string]("frame_prompts")
)

// DecisionApprove is the user decision value that advances the graph
// past strategy approval.
const DecisionApprove = "Yes"

// CheckUserDecision routes after the strategy approval stage:
// an approving decision advances to the creative director, anything
// else loops back to the strategist.
func CheckUserDecision(state *workflow.State) string {
	if workflow.GetOr(state, KeyUserDecision, "") == DecisionApprove {
		return StageCreativeDirector
	}
	return StageBrandStrategist
}

// CheckUserHappiness routes after the concept approval stage: a happy
// user advances to script creation, otherwise the creative director
// runs again with accumulated feedback.
func CheckUserHappiness(state *workflow.State) string {
	if workflow.GetOr(state, KeyUserHappy, false) {
		return StageScripts
	}
	return StageCreativeDirector
}

// DecisionFunc supplies the strategy approval decision. Interactive
// deployments suspend for human input; the batch runner auto-approves.
type DecisionFunc func(ctx context.Context, state *workflow.State) (string, error)

// ApprovalFunc supplies the concept approval signal.
type ApprovalFunc func(ctx context.Context, state *workflow.State) (bool, error)

// FeedbackFunc supplies revision feedback for the creative director.
// An empty string means no feedback.
type FeedbackFunc func(ctx context.Context, state *workflow.State) (string, error)

// AutoApprove always answers yes; it is the default for both decision
// stages so the batch graph runs straight through.
func AutoApprove(context.Context, *workflow.State) (string, error) {
	return DecisionApprove, nil
}

// AutoHappy always reports the user as satisfied.
func AutoHappy(context.Context, *workflow.State) (bool, error) {
	return true, nil
}

// NoFeedback supplies no revision feedback.
func NoFeedback(context.Context, *workflow.State) (string, error) {
	return "", nil
}

// SelectedConcept resolves the narrative input for script generation:
// the explicitly selected concept, or the first parsed concept, or the
// empty string when no concepts exist. The run proceeds either way.
func SelectedConcept(state *workflow.State) string {
	if sel := workflow.GetOr(state, KeySelectedConcept, ""); sel != "" {
		return sel
	}
	concepts := workflow.GetOr(state, KeyConcepts, nil)
	if len(concepts) > 0 {
		return concepts[0].Content
	}
	return ""
}
