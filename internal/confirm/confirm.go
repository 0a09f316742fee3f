// Package confirm asks the user yes/no questions on the terminal.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Ask writes question followed by " [y/N]: " to out and reads one line from
// in. Only "y" or "Y" counts as yes; EOF counts as no.
func Ask(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", question); err != nil {
		return false, errors.Wrap(err, "write prompt")
	}

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, "read answer")
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}
