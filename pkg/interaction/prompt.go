// pkg/interaction/prompt.go

package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmDestructive asks the user to type "yes" before a destructive
// operation proceeds. Anything else declines. Reading from in allows tests
// to script the answer; pass nil to read stdin.
func ConfirmDestructive(prompt string, in io.Reader) bool {
	if in == nil {
		in = os.Stdin
	}

	fmt.Printf("%s (yes/no): ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
