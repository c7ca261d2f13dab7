// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUserNotSet is returned at startup when $USER is empty.
	ErrUserNotSet = errors.New("USER environment variable is not set")
	// ErrHostname is returned at startup when the host name cannot be read.
	ErrHostname = errors.New("cannot determine hostname")
)

// Identity returns the user and host names shown in the prompt.
func Identity() (string, string, error) {
	user := os.Getenv("USER")
	if user == "" {
		return "", "", ErrUserNotSet
	}

	host, err := os.Hostname()
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrHostname, err)
	}

	return user, host, nil
}

// InitWorkingDir sets $PWD from the working directory when it is unset.
func InitWorkingDir() error {
	if os.Getenv("PWD") != "" {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	return os.Setenv("PWD", wd)
}
