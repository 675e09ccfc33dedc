package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// promptConfirmer asks yes/no questions on the terminal. Destructive
// actions (archive, delete) go through it unless --yes is given.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(input))
	return answer == "y" || answer == "yes"
}

// autoConfirmer answers yes to everything, backing the --yes flag.
type autoConfirmer struct{}

func (autoConfirmer) Confirm(string) bool { return true }
