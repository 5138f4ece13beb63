// Package server exposes the analysis over the Model Context Protocol
// so editors and agents can score drafts in place.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/slopguard/slopguard/internal/analysis"
	"github.com/slopguard/slopguard/internal/config"
	"github.com/slopguard/slopguard/internal/detectors"
	"github.com/slopguard/slopguard/internal/logger"
	"github.com/slopguard/slopguard/internal/rules"
)

// Options configure the MCP server.
type Options struct {
	// RulesPath is an optional fitted pipeline config (JSONL). When
	// set, the file is watched and hot-reloaded on change.
	RulesPath string
	Hyper     *config.Hyperparameters
	Logger    *logger.Logger
}

// Server wraps the MCP server around an analysis pipeline.
type Server struct {
	mcp       *mcp.Server
	hp        *config.Hyperparameters
	log       *logger.Logger
	rulesPath string
	active    atomic.Pointer[rules.Pipeline]
}

// New creates an MCP server with the pipeline loaded and tools
// registered.
func New(opts Options) (*Server, error) {
	hp := opts.Hyper
	if hp == nil {
		hp = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		hp:        hp,
		log:       log.WithComponent("server"),
		rulesPath: opts.RulesPath,
	}
	if opts.RulesPath != "" {
		if err := s.Reload(); err != nil {
			return nil, err
		}
	} else {
		s.active.Store(detectors.DefaultPipeline(hp))
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "slopguard",
		Version: "0.1.0",
	}, nil)
	s.registerTools()

	return s, nil
}

// Pipeline returns the active pipeline.
func (s *Server) Pipeline() *rules.Pipeline {
	return s.active.Load()
}

// Reload re-reads the rules file and swaps the active pipeline.
// Scoring in flight keeps the pipeline it started with.
func (s *Server) Reload() error {
	p, err := rules.LoadPipelineFile(s.rulesPath, detectors.DefaultRegistry(), s.hp)
	if err != nil {
		return fmt.Errorf("loading rules %s: %w", s.rulesPath, err)
	}
	s.active.Store(p)
	s.log.Info("pipeline loaded", zap.String("path", s.rulesPath), zap.Int("detectors", len(p.Detectors())))
	return nil
}

// Run starts the MCP server on the stdio transport and, when a rules
// file is configured, watches it for changes until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	if s.rulesPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("starting rules watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory: editors replace files on save, which
		// drops the watch on the file itself.
		if err := watcher.Add(filepath.Dir(s.rulesPath)); err != nil {
			return fmt.Errorf("watching rules dir: %w", err)
		}
		go s.watchRules(ctx, watcher)
	}

	s.log.Info("starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) watchRules(ctx context.Context, watcher *fsnotify.Watcher) {
	target := filepath.Clean(s.rulesPath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warn("rules reload failed, keeping previous pipeline", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("rules watcher error", zap.Error(err))
		}
	}
}

// checkSlopArgs are the arguments for the check_slop tool.
type checkSlopArgs struct {
	Text string `json:"text" jsonschema:"required,The prose to score"`
}

// checkSlopFileArgs are the arguments for the check_slop_file tool.
type checkSlopFileArgs struct {
	Path string `json:"path" jsonschema:"required,Path to a text or markdown file to score"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_slop",
		Description: "Score a piece of prose for AI-generated style patterns. Returns a 0-100 score (100 = clean), a severity band, the individual violations, and revision advice.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkSlopArgs) (*mcp.CallToolResult, any, error) {
		if args.Text == "" {
			return errorResult("text is required"), nil, nil
		}
		return s.reportResult(analysis.Analyze(args.Text, s.hp, s.Pipeline()))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_slop_file",
		Description: "Score a file's prose for AI-generated style patterns. Reads the file from disk and returns the same report as check_slop.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkSlopFileArgs) (*mcp.CallToolResult, any, error) {
		if args.Path == "" {
			return errorResult("path is required"), nil, nil
		}
		data, err := os.ReadFile(args.Path)
		if err != nil {
			return errorResult(fmt.Sprintf("cannot read %s: %v", args.Path, err)), nil, nil
		}
		report := analysis.Analyze(string(data), s.hp, s.Pipeline())
		report.Source = args.Path
		return s.reportResult(report)
	})
}

func (s *Server) reportResult(report analysis.Report) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal report: %v", err)), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
