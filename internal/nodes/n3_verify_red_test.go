package nodes

import (
	"context"
	"testing"

	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

func TestVerifyRed_AllRedSucceeds(t *testing.T) {
	n := NewVerifyRed(stubTestRunner{result: collaborators.TestRunResult{AllRed: true}})

	result := n.Run(context.Background(), workflowstate.State{})

	if result.Delta.ErrorMessage != "" {
		t.Errorf("expected no error when all tests are red, got %q", result.Delta.ErrorMessage)
	}
}

func TestVerifyRed_UnexpectedPassIsFatal(t *testing.T) {
	n := NewVerifyRed(stubTestRunner{result: collaborators.TestRunResult{AllRed: false, AllGreen: true}})

	result := n.Run(context.Background(), workflowstate.State{})

	if result.Delta.ErrorMessage == "" {
		t.Fatal("expected error_message when tests unexpectedly pass before implementation")
	}
}

func TestVerifyRed_RunnerErrorIsFatal(t *testing.T) {
	n := NewVerifyRed(stubTestRunner{err: errStub})

	result := n.Run(context.Background(), workflowstate.State{})

	if result.Delta.ErrorMessage == "" {
		t.Fatal("expected error_message on runner failure")
	}
}
