package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
)

// HookExecutor runs the manifest-declared publish hooks
type HookExecutor struct {
	defaultTimeout time.Duration
	logger         interfaces.Logger
}

// NewHookExecutor creates a new hook executor
func NewHookExecutor(logger interfaces.Logger) *HookExecutor {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &HookExecutor{
		defaultTimeout: 10 * time.Minute,
		logger:         logger,
	}
}

// HookResult contains the outcome of one hook command
type HookResult struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// RunBefore runs the beforePublish hooks of a project. The first failure
// aborts the publish.
func (e *HookExecutor) RunBefore(ctx context.Context, project *entities.Project) error {
	return e.run(ctx, project, "beforePublish", project.Hooks.BeforePublish)
}

// RunAfter runs the afterPublish hooks of a project
func (e *HookExecutor) RunAfter(ctx context.Context, project *entities.Project) error {
	return e.run(ctx, project, "afterPublish", project.Hooks.AfterPublish)
}

func (e *HookExecutor) run(ctx context.Context, project *entities.Project, phase string, commands []string) error {
	for _, command := range commands {
		result := e.execute(ctx, command, project)
		if result.ExitCode != 0 {
			return fmt.Errorf("%s hook failed (exit %d): %s\nStderr: %s",
				phase, result.ExitCode, command, result.Stderr)
		}
		e.logger.Debug("hook completed",
			interfaces.F("phase", phase),
			interfaces.F("command", command),
			interfaces.F("duration", result.Duration.String()),
		)
	}
	return nil
}

// execute runs one hook command through the shell with the project's
// coordinates in the environment
func (e *HookExecutor) execute(ctx context.Context, command string, project *entities.Project) *HookResult {
	start := time.Now()
	result := &HookResult{Command: command}

	execCtx, cancel := context.WithTimeout(ctx, e.defaultTimeout)
	defer cancel()

	// /bin/sh for maximum compatibility
	//nolint:gosec // G204: Hook execution is intentional and controlled by the publish manifest
	cmd := exec.CommandContext(execCtx, "/bin/sh", "-c", command)
	cmd.Dir = project.Dir

	env := os.Environ()
	env = append(env,
		"DECANT_PROJECT="+project.Name,
		"DECANT_GROUP="+project.Group,
		"DECANT_VERSION="+project.Version,
	)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case execCtx.Err() == context.DeadlineExceeded:
			result.ExitCode = -1
			result.Stderr = fmt.Sprintf("hook timeout after %v", e.defaultTimeout)
		default:
			result.ExitCode = -1
			result.Stderr = err.Error()
		}
	}

	return result
}
