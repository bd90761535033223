package report

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// ReceiptPath returns a stable PDF path under dir for the given product. The
// filename uses a slug of the product and a short hash of its normalized
// form, so different spellings that slug alike do not collide.
func ReceiptPath(dir, product string) string {
	root := strings.TrimSpace(dir)
	if root == "" {
		root = "receipts"
	}
	p := strings.TrimSpace(product)
	if p == "" {
		p = "product"
	}
	s := slug.Make(p)
	if s == "" {
		s = "product"
	}
	h := sha256.Sum256([]byte(strings.ToLower(p)))
	short := hex.EncodeToString(h[:])[:12]
	return filepath.Join(root, s+"-"+short+".pdf")
}
