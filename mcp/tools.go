package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/moritzschallercs50/FrameAgent-Studio/brand"
	"github.com/moritzschallercs50/FrameAgent-Studio/pipeline"
	"github.com/moritzschallercs50/FrameAgent-Studio/workflow"
)

func (s *Server) registerTools(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("analyze_url",
		mcp.WithDescription("Start a new run: research the brand behind a URL and open a session"),
		mcp.WithString("url", mcp.Required(), mcp.Description("The company's website URL")),
	), s.handleAnalyzeURL)

	srv.AddTool(mcp.NewTool("brand_strategy",
		mcp.WithDescription("Generate the three-point brand strategy for a session"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
	), s.handleBrandStrategy)

	srv.AddTool(mcp.NewTool("creative_concepts",
		mcp.WithDescription("Generate four creative video ad concepts from the brand strategy"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
	), s.handleCreativeConcepts)

	srv.AddTool(mcp.NewTool("regenerate_concepts",
		mcp.WithDescription("Regenerate the creative concepts, addressing user feedback"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
		mcp.WithString("feedback", mcp.Required(), mcp.Description("What the user wants changed")),
	), s.handleRegenerateConcepts)

	srv.AddTool(mcp.NewTool("select_concept",
		mcp.WithDescription("Select a concept as the narrative basis for the script"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
		mcp.WithNumber("concept_id", mcp.Required(), mcp.Description("The 1-based concept id to select")),
	), s.handleSelectConcept)

	srv.AddTool(mcp.NewTool("generate_script",
		mcp.WithDescription("Generate the structured 30-second video script from the selected concept"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
	), s.handleGenerateScript)

	srv.AddTool(mcp.NewTool("update_script",
		mcp.WithDescription("Replace the script with user-edited scenes"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
		mcp.WithString("script", mcp.Required(), mcp.Description(`The edited script as JSON: {"script": [...scenes]}`)),
	), s.handleUpdateScript)

	srv.AddTool(mcp.NewTool("generate_storyboard",
		mcp.WithDescription("Generate global themes and per-scene frame prompts, returning the storyboard"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Run identifier from analyze_url")),
	), s.handleGenerateStoryboard)
}

// runStage executes one pipeline step against the session's state and
// captures the outputs back into the session.
func runStage(ctx context.Context, sess *Session, step workflow.Step) error {
	state := sess.state()
	if _, err := step.Run(ctx, state); err != nil {
		return err
	}
	sess.capture(state)
	return nil
}

func (s *Server) handleAnalyzeURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.URL == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	// Research runs against a per-call source; the URL arrives with the
	// request, not at server construction.
	stages := *s.stages
	stages.Source = brand.URLSource{URL: args.URL}

	var sess Session
	if err := runStage(ctx, &sess, stages.Research()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"session_id":   id,
		"company_info": sess.CompanyInfo,
	})
}

func (s *Server) handleBrandStrategy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		if err := runStage(ctx, sess, s.stages.BrandStrategist()); err != nil {
			return nil, err
		}
		return map[string]any{"strategy": sess.Strategy}, nil
	})
}

func (s *Server) handleCreativeConcepts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		if err := runStage(ctx, sess, s.stages.CreativeDirector()); err != nil {
			return nil, err
		}
		return map[string]any{"concepts": sess.Concepts}, nil
	})
}

func (s *Server) handleRegenerateConcepts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Feedback  string `json:"feedback"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		sess.Feedback = args.Feedback
		if err := runStage(ctx, sess, s.stages.CreativeDirector()); err != nil {
			return nil, err
		}
		return map[string]any{"concepts": sess.Concepts}, nil
	})
}

func (s *Server) handleSelectConcept(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		ConceptID int    `json:"concept_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		if err := runStage(ctx, sess, s.stages.SelectConcept(args.ConceptID)); err != nil {
			return nil, err
		}
		return map[string]any{"selected_concept": sess.SelectedConcept}, nil
	})
}

func (s *Server) handleGenerateScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		if err := runStage(ctx, sess, s.stages.Scripts()); err != nil {
			return nil, err
		}
		return map[string]any{"script": sess.Script}, nil
	})
}

func (s *Server) handleUpdateScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Script    string `json:"script"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		var script pipeline.Script
		if err := json.Unmarshal([]byte(args.Script), &script); err != nil {
			return nil, fmt.Errorf("invalid script JSON: %w", err)
		}
		if script.Scenes == nil {
			script.Scenes = []pipeline.Scene{}
		}
		sess.Script = script
		return map[string]any{"script": sess.Script}, nil
	})
}

func (s *Server) handleGenerateStoryboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.withSession(ctx, args.SessionID, func(sess *Session) (any, error) {
		if err := runStage(ctx, sess, s.stages.GlobalThemes()); err != nil {
			return nil, err
		}
		if err := runStage(ctx, sess, s.stages.FramePrompts()); err != nil {
			return nil, err
		}
		return map[string]any{"storyboard": pipeline.Storyboard(sess.state())}, nil
	})
}
