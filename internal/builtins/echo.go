// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Echo prints its arguments, substituting $NAME with the value of the
// environment variable NAME. A reference runs from the $ to the next space.
// Unknown variables are reported on stderr and skipped; the trailing newline
// is always written.
func Echo(_ context.Context, env *Env, args []string) error {
	text := strings.Join(args[1:], " ")

	var sb strings.Builder

	for i := 0; i < len(text); {
		if text[i] != '$' {
			sb.WriteByte(text[i])
			i++

			continue
		}

		end := strings.IndexByte(text[i+1:], ' ')
		if end < 0 {
			end = len(text)
		} else {
			end += i + 1
		}

		name := text[i+1 : end]
		if v, ok := os.LookupEnv(name); ok {
			sb.WriteString(v)
		} else {
			fmt.Fprintf(env.Stderr, "echo: %s: %v\n", name, ErrVariableNotSet) // nolint:errcheck
		}

		i = end
	}

	sb.WriteByte('\n')

	_, err := fmt.Fprint(env.Stdout, sb.String())

	return err
}
