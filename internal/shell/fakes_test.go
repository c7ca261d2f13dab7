// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"

	"github.com/matt-FFFFFF/mush/internal/monitor"
)

// promptingMonitor records the first answer given to Configure.
type promptingMonitor struct {
	answer string
}

func (m *promptingMonitor) Start(context.Context) error { return nil }
func (m *promptingMonitor) Stop(context.Context) error { return nil }
func (m *promptingMonitor) Update(context.Context) error { return nil }
func (m *promptingMonitor) Status(context.Context) error { return nil }

func (m *promptingMonitor) Configure(_ context.Context, p monitor.Prompter) error {
	a, err := p.Prompt("CPU: ")
	m.answer = a

	return err
}
