package services

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/taskhive/taskhive/internal/config"
)

type LDAPService struct {
	config *config.LDAPConfig
}

func NewLDAPService(cfg *config.LDAPConfig) *LDAPService {
	return &LDAPService{config: cfg}
}

type LDAPUser struct {
	DN        string
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Authenticate verifies the credentials against the directory and returns
// the matched entry's identity attributes.
func (s *LDAPService) Authenticate(username, password string) (*LDAPUser, error) {
	if !s.config.Enabled {
		return nil, fmt.Errorf("LDAP is not enabled")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var conn *ldap.Conn
	var err error

	if s.config.UseSSL {
		conn, err = ldap.DialTLS("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	} else {
		conn, err = ldap.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}
	defer conn.Close()

	// Bind with service account (if configured)
	if s.config.BindDN != "" {
		if err := conn.Bind(s.config.BindDN, s.config.BindPassword); err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	searchFilter := fmt.Sprintf(s.config.UserFilter, ldap.EscapeFilter(username))
	searchRequest := ldap.NewSearchRequest(
		s.config.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		searchFilter,
		[]string{"dn", "cn", "mail", "uid", "sAMAccountName", "givenName", "sn"},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", err)
	}
	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("user not found in LDAP")
	}
	if len(result.Entries) > 1 {
		return nil, fmt.Errorf("multiple users found in LDAP")
	}

	userDN := result.Entries[0].DN

	// Bind as user to verify password
	if err := conn.Bind(userDN, password); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	entry := result.Entries[0]
	user := &LDAPUser{
		DN:        userDN,
		Username:  entry.GetAttributeValue("uid"),
		Email:     entry.GetAttributeValue("mail"),
		FirstName: entry.GetAttributeValue("givenName"),
		LastName:  entry.GetAttributeValue("sn"),
	}

	// Try sAMAccountName if uid is empty (Active Directory)
	if user.Username == "" {
		user.Username = entry.GetAttributeValue("sAMAccountName")
	}
	// Fall back to splitting cn when the name attributes are absent
	if user.FirstName == "" && user.LastName == "" {
		if cn := entry.GetAttributeValue("cn"); cn != "" {
			parts := strings.SplitN(cn, " ", 2)
			user.FirstName = parts[0]
			if len(parts) == 2 {
				user.LastName = parts[1]
			}
		}
	}

	return user, nil
}
