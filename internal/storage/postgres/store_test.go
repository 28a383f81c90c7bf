package postgres

import (
	"math/big"
	"regexp"
	"strings"
	"testing"
	"time"

	"gifIndexer/internal/model"
	"gifIndexer/internal/replay"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

func testSnapshot() *replay.Snapshot {
	created := model.Stamp{BlockNumber: 1, Timestamp: time.UnixMilli(1_000), TxHash: "0x01", From: "0xaa"}
	modified := model.Stamp{BlockNumber: 5, Timestamp: time.UnixMilli(5_000), TxHash: "0x05", From: "0xbb"}
	audit := model.Audit{Created: created, Modified: modified}
	activate := uint64(1_700_000_000)
	signature := "callback(uint64)"

	return &replay.Snapshot{
		Nfts:       []model.Nft{{NftID: 1, ObjectType: model.ObjectTypePolicy, Owner: "0xaa", Audit: audit}},
		Instances:  []model.Instance{{NftID: 2, InstanceAddress: "0xcc", Audit: audit}},
		Components: []model.Component{{NftID: 3, InstanceNftID: 2, ComponentType: model.ObjectTypeProduct, Audit: audit}},
		Risks:      []model.Risk{{ProductNftID: 3, RiskID: "0x41", Audit: audit}},
		Policies: []model.Policy{{
			NftID: 1, ProductNftID: 3, RiskID: "0x41",
			SumInsuredAmount: new(big.Int).Lsh(big.NewInt(1), 100),
			PremiumAmount:    big.NewInt(10),
			PremiumPaid:      big.NewInt(0),
			Lifetime:         big.NewInt(3600),
			ActivateAt:       &activate,
			Audit:            audit,
		}},
		Claims:         []model.Claim{{PolicyNftID: 1, ClaimID: 1, ClaimAmount: big.NewInt(5), Audit: audit}},
		Payouts:        []model.Payout{{PolicyNftID: 1, PayoutID: 1 << 24, ClaimID: 1, PayoutAmount: big.NewInt(5), Audit: audit}},
		OracleRequests: []model.OracleRequest{{RequestID: 9, FunctionSignature: &signature, Audit: audit}},
		Bundles:        []model.Bundle{{BundleNftID: 4, Lifetime: big.NewInt(1), Balance: big.NewInt(2), LockedAmount: big.NewInt(0), Audit: audit}},
	}
}

func TestSnapshotStatementsOrderAndArity(t *testing.T) {
	statements := SnapshotStatements(testSnapshot())

	var tables []string
	for _, st := range statements {
		tables = append(tables, st.Table)

		matches := placeholderRe.FindAllStringSubmatch(st.SQL, -1)
		if len(matches) != len(st.Args) {
			t.Fatalf("%s: %d placeholders for %d args", st.Table, len(matches), len(st.Args))
		}
	}
	if got, want := strings.Join(tables, ","), strings.Join(model.Kinds, ","); got != want {
		t.Fatalf("table order mismatch: got %s want %s", got, want)
	}
}

func TestUpsertKeepsCreatedStamp(t *testing.T) {
	for _, st := range SnapshotStatements(testSnapshot()) {
		conflict := st.SQL[strings.Index(st.SQL, "ON CONFLICT"):]
		if strings.Contains(conflict, "created_") {
			t.Fatalf("%s: conflict path rewrites created stamp: %s", st.Table, conflict)
		}
		if !strings.Contains(conflict, "modified_block_number = EXCLUDED.modified_block_number") {
			t.Fatalf("%s: conflict path does not refresh modified stamp", st.Table)
		}
	}
}

func TestPolicyStatementArgs(t *testing.T) {
	var policy Statement
	for _, st := range SnapshotStatements(testSnapshot()) {
		if st.Table == model.KindPolicy {
			policy = st
		}
	}
	if policy.SQL == "" {
		t.Fatalf("policy statement missing")
	}
	if !strings.Contains(policy.SQL, "$6::numeric") {
		t.Fatalf("sum insured not cast to numeric: %s", policy.SQL)
	}
	if got := policy.Args[5]; got != "1267650600228229401496703205376" {
		t.Fatalf("sum insured mismatch: %v", got)
	}
	if got, ok := policy.Args[9].(*int64); !ok || got == nil || *got != 1_700_000_000 {
		t.Fatalf("activate_at mismatch: %v", policy.Args[9])
	}
	if got, ok := policy.Args[10].(*int64); !ok || got != nil {
		t.Fatalf("expiration_at should be NULL: %v", policy.Args[10])
	}

	n := len(policy.Args)
	if policy.Args[n-8] != int64(1) || policy.Args[n-7] != int64(1_000) {
		t.Fatalf("created stamp mismatch: %v %v", policy.Args[n-8], policy.Args[n-7])
	}
	if policy.Args[n-4] != int64(5) || policy.Args[n-1] != "0xbb" {
		t.Fatalf("modified stamp mismatch: %v %v", policy.Args[n-4], policy.Args[n-1])
	}
}

func TestDecimalNilIsZero(t *testing.T) {
	if got := decimal(nil); got != "0" {
		t.Fatalf("nil amount should render 0, got %s", got)
	}
	if got := decimal(big.NewInt(-3)); got != "-3" {
		t.Fatalf("negative amount mismatch: %s", got)
	}
}

func TestSchemaCoversEveryKind(t *testing.T) {
	for _, kind := range model.Kinds {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+kind+" (") {
			t.Fatalf("schema missing table %s", kind)
		}
	}
}

func TestClaimConfirmedAmountNullable(t *testing.T) {
	for _, st := range SnapshotStatements(testSnapshot()) {
		if st.Table != model.KindClaim {
			continue
		}
		if got := st.Args[2]; got != "5" {
			t.Fatalf("claim amount mismatch: %v", got)
		}
		if got, ok := st.Args[3].(*string); !ok || got != nil {
			t.Fatalf("unconfirmed claim should write NULL, got %v", st.Args[3])
		}
		return
	}
	t.Fatalf("claim statement missing")
}
