// handlers/api/client.go
package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-imap/client"

	"outpost/utils"
)

// ErrIMAPUnreachable marks a verification failure caused by the server
// being unreachable rather than by bad credentials.
var ErrIMAPUnreachable = errors.New("imap server unreachable")

// VerifyIMAPCredentials checks a username/password pair against the
// configured IMAP server. The connection is dropped immediately after a
// successful login; the shell itself never reads mail over IMAP.
func VerifyIMAPCredentials(server string, port int, username, password string) error {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", server, port), nil)
	if err != nil {
		utils.Log.Error("DialTLS %s:%d connection err: %v", server, port, err)
		return fmt.Errorf("%w: %v", ErrIMAPUnreachable, err)
	}
	defer c.Logout()

	if err := c.Login(username, password); err != nil {
		utils.Log.Warn("IMAP login failed for %s: %v", username, err)
		return fmt.Errorf("login error: %v", err)
	}

	return nil
}

// GetUsernameFromEmail extracts the local part of an email address
func GetUsernameFromEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return ""
	}
	return parts[0]
}
