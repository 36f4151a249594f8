package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// hashSeparator joins the canonical fields before hashing. The ASCII unit
// separator cannot appear in CSV cell data.
const hashSeparator = "\x1f"

// isoDateFormat is the canonical date layout used in the hash input.
const isoDateFormat = "2006-01-02"

// ComputeHash returns the dedup fingerprint of a row for the given
// organization. It is deterministic across runs and platforms: the input is a
// fixed-order concatenation of the canonical fields, digested with SHA-256
// and hex encoded. Two logically identical rows anywhere in time hash
// identically.
func ComputeHash(orgID uuid.UUID, row ParsedRow) string {
	input := strings.Join([]string{
		orgID.String(),
		row.Date.Format(isoDateFormat),
		row.DebitAccount,
		row.CreditAccount,
		strconv.FormatInt(row.DebitAmount, 10),
		strconv.FormatInt(row.CreditAmount, 10),
		row.Description,
	}, hashSeparator)

	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
