// Package masking replaces direct identifiers such as company IDs, company
// names and client lists with masked or hashed forms.
package masking

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	log "github.com/golang/glog"

	"github.com/delique1984/Experience5-privacy/checks"
	"github.com/delique1984/Experience5-privacy/record"
)

// DefaultSalt is mixed into hashed identifiers when no salt is configured.
const DefaultSalt = "edu_demo_salt"

// MaskChar replaces hidden characters.
const MaskChar = '*'

// clientSeparator joins masked client names.
const clientSeparator = "、"

// Rule names how a field is masked.
type Rule string

// Masking rules.
const (
	HashID      Rule = "hash_id"
	CompanyName Rule = "company_name"
	ClientList  Rule = "client_list"
)

// ParseRule converts a rule name. "hash" is accepted as an alias of hash_id.
func ParseRule(s string) (Rule, error) {
	switch r := Rule(strings.ToLower(strings.TrimSpace(s))); r {
	case HashID, "hash":
		return HashID, nil
	case CompanyName, ClientList:
		return r, nil
	}
	return "", checks.NewInputError("ParseRule", "unknown masking rule %q", s)
}

// DefaultRules mask the identifying columns of the enterprise records.
var DefaultRules = map[string]Rule{
	"企业ID": HashID,
	"企业名称": CompanyName,
	"核心客户": ClientList,
}

// Masker masks values with a fixed salt.
type Masker struct {
	salt string
}

// New returns a Masker hashing with salt. An empty salt means DefaultSalt.
func New(salt string) *Masker {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Masker{salt: salt}
}

// HashID returns the hex SHA-256 of id followed by the salt. The empty
// string is returned unchanged.
func (m *Masker) HashID(id string) string {
	if id == "" {
		return id
	}
	sum := sha256.Sum256([]byte(id + m.salt))
	return hex.EncodeToString(sum[:])
}

// MaskCompanyName keeps the first and last characters of name: 百度 becomes
// 百*, 比亚迪 becomes 比*迪 and 宁德时代 becomes 宁**代. Longer names also
// get exactly two mask characters. Names of one character are unchanged.
func MaskCompanyName(name string) string {
	name = strings.TrimSpace(name)
	rs := []rune(name)
	switch len(rs) {
	case 0, 1:
		return name
	case 2:
		return string([]rune{rs[0], MaskChar})
	case 3:
		return string([]rune{rs[0], MaskChar, rs[2]})
	}
	return string([]rune{rs[0], MaskChar, MaskChar, rs[len(rs)-1]})
}

func isClientSeparator(r rune) bool {
	switch r {
	case '、', '，', ',', ' ':
		return true
	}
	return false
}

// MaskClientList masks every name of a list separated by 、，, or spaces, and
// joins the masked names with 、.
func MaskClientList(list string) string {
	if list == "" {
		return list
	}
	names := strings.FieldsFunc(list, isClientSeparator)
	for i, n := range names {
		names[i] = MaskCompanyName(n)
	}
	return strings.Join(names, clientSeparator)
}

// Rate returns the share of characters of original that masked hides: the
// number of mask characters in masked over the length of original.
func Rate(original, masked string) float64 {
	if original == "" || masked == "" {
		return 0
	}
	return float64(strings.Count(masked, string(MaskChar))) / float64(utf8.RuneCountInString(original))
}

// Mask applies rule to v. Nil and empty values are returned unchanged;
// other non-string values are masked in their string form.
func (m *Masker) Mask(v any, rule Rule) any {
	if v == nil {
		return nil
	}
	s := record.String(v)
	if s == "" {
		return v
	}
	switch rule {
	case HashID:
		return m.HashID(s)
	case CompanyName:
		return MaskCompanyName(s)
	case ClientList:
		return MaskClientList(s)
	}
	log.Warningf("masking: unknown rule %q, value left unmasked", rule)
	return v
}

// MaskBatch returns copies of rs with the fields named in rules masked.
// Missing and nil fields are skipped, and rs is not modified.
func (m *Masker) MaskBatch(rs []record.Record, rules map[string]Rule) []record.Record {
	out := record.CloneAll(rs)
	for _, r := range out {
		for field, rule := range rules {
			if v, ok := r[field]; ok && v != nil {
				r[field] = m.Mask(v, rule)
			}
		}
	}
	log.V(1).Infof("masking: masked %d fields in %d records", len(rules), len(out))
	return out
}
