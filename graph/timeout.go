package graph

import (
	"context"
	"fmt"
	"time"
)

// nodeTimeout resolves the timeout for a node: its NodePolicy override if
// set, else the engine-wide default, else 0 (unlimited).
func nodeTimeout(policy *NodePolicy, defaultTimeout time.Duration) time.Duration {
	if policy != nil && policy.Timeout > 0 {
		return policy.Timeout
	}
	return defaultTimeout
}

// runNodeTimed runs node under the timeout nodeTimeout resolves for it,
// reporting a NODE_TIMEOUT EngineError if the deadline passes before Run
// returns. A zero timeout runs node against ctx directly.
func runNodeTimed[S any](
	ctx context.Context,
	node Node[S],
	nodeID string,
	state S,
	policy *NodePolicy,
	defaultTimeout time.Duration,
) (NodeResult[S], error) {
	timeout := nodeTimeout(policy, defaultTimeout)
	if timeout == 0 {
		return node.Run(ctx, state), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := node.Run(timeoutCtx, state)
	if timeoutCtx.Err() == context.DeadlineExceeded {
		return result, &EngineError{
			Message: fmt.Sprintf("node %s exceeded timeout of %v", nodeID, timeout),
			Code:    "NODE_TIMEOUT",
		}
	}
	return result, nil
}
