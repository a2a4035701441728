// Entrypoint for the Cobra CLI, delegating to the root command in
// cmd/phoenixsim/root.go.

package main

import (
	"github.com/phoenix-sim/phoenix-core/cmd/phoenixsim"
)

func main() {
	phoenixsim.Execute()
}
