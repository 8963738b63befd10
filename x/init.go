/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

var (
	// These variables are set using -ldflags
	phonebookVersion string
	gitBranch        string
	lastCommitSHA    string
	lastCommitTime   string

	startTime = time.Now()
)

// BuildDetails returns a string containing details about the phonebook binary.
func BuildDetails() string {
	return fmt.Sprintf(`
Phonebook version : %v
Commit SHA-1      : %v
Commit timestamp  : %v
Branch            : %v

Licensed under the Apache Public License 2.0.

`,
		Version(), lastCommitSHA, lastCommitTime, gitBranch)
}

// PrintVersion prints version and other helpful information.
func PrintVersion() {
	glog.Infof("\n%s\n", BuildDetails())
}

// Version returns a string containing the phonebook version.
func Version() string {
	if phonebookVersion == "" {
		return "dev"
	}
	return phonebookVersion
}

// Uptime returns the duration since the process started.
func Uptime() time.Duration {
	return time.Since(startTime)
}
