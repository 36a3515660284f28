package steps

import "github.com/pyboot-project/pyboot/pkg/model"

// Both steps satisfy the orchestrator-facing Step contract.
var (
	_ model.Step = (*BootstrapStep)(nil)
	_ model.Step = (*VenvStep)(nil)
)
