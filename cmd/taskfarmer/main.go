// Taskfarmer runs serial shell jobs from a shared job file across a
// fixed-size parallel allocation, coordinated only by a file lock.
package main

import (
	"os"

	"github.com/lohedges/taskfarmer/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
