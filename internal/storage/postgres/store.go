package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gifIndexer/internal/model"
	"gifIndexer/internal/replay"
)

//go:embed schema.sql
var schema string

// Store persists replay snapshots to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the entity tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// WriteSnapshot upserts every entity of the snapshot and records the run in a
// single transaction. Either the whole snapshot lands or nothing does.
func (s *Store) WriteSnapshot(ctx context.Context, snapshot *replay.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}
	statements := SnapshotStatements(snapshot)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, st := range statements {
		batch.Queue(st.SQL, st.Args...)
	}
	br := tx.SendBatch(ctx, batch)
	for _, st := range statements {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert %s: %w", st.Table, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if snapshot.RunID != "" {
		if err := recordRun(ctx, tx, snapshot); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func recordRun(ctx context.Context, tx pgx.Tx, snapshot *replay.Snapshot) error {
	st := snapshot.Stats
	_, err := tx.Exec(ctx, `
		INSERT INTO replay_run (
			run_id, processed, applied, decode_failures, missing_references, unhandled, unknown, anomalies, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`, snapshot.RunID, st.Processed, st.Applied, st.DecodeFailures, st.MissingReferences, st.Unhandled, st.Unknown, st.Anomalies)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Statement is one queued upsert.
type Statement struct {
	Table string
	SQL   string
	Args  []any
}

type column struct {
	name    string
	numeric bool
}

type table struct {
	name string
	sql  string
}

var auditColumns = []string{
	"created_block_number", "created_timestamp", "created_tx_hash", "created_by",
	"modified_block_number", "modified_timestamp", "modified_tx_hash", "modified_by",
}

// newTable builds the upsert for an entity table. The insert path writes every
// column; the conflict path refreshes mutable columns and the modified stamp
// and leaves the created stamp untouched.
func newTable(name string, keys []string, cols ...column) table {
	all := make([]string, 0, len(keys)+len(cols)+len(auditColumns))
	values := make([]string, 0, cap(all))
	n := 0
	placeholder := func(numeric bool) string {
		n++
		if numeric {
			return fmt.Sprintf("$%d::numeric", n)
		}
		return fmt.Sprintf("$%d", n)
	}
	for _, key := range keys {
		all = append(all, key)
		values = append(values, placeholder(false))
	}
	updates := make([]string, 0, len(cols)+4)
	for _, col := range cols {
		all = append(all, col.name)
		values = append(values, placeholder(col.numeric))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col.name, col.name))
	}
	for _, col := range auditColumns {
		all = append(all, col)
		values = append(values, placeholder(false))
		if strings.HasPrefix(col, "modified_") {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		name,
		strings.Join(all, ", "),
		strings.Join(values, ", "),
		strings.Join(keys, ", "),
		strings.Join(updates, ", "),
	)
	return table{name: name, sql: sql}
}

func (t table) statement(args ...any) Statement {
	return Statement{Table: t.name, SQL: t.sql, Args: args}
}

func plain(name string) column   { return column{name: name} }
func numeric(name string) column { return column{name: name, numeric: true} }

var (
	nftTable = newTable(model.KindNft, []string{"nft_id"},
		plain("parent_nft_id"), plain("object_type"), plain("object_address"), plain("owner"))
	instanceTable = newTable(model.KindInstance, []string{"nft_id"},
		plain("instance_address"))
	componentTable = newTable(model.KindComponent, []string{"nft_id"},
		plain("instance_nft_id"), plain("component_type"), plain("token"))
	riskTable = newTable(model.KindRisk, []string{"product_nft_id", "risk_id"},
		plain("locked"), plain("closed"))
	policyTable = newTable(model.KindPolicy, []string{"nft_id"},
		plain("product_nft_id"), plain("bundle_nft_id"), plain("risk_id"), plain("referral_id"),
		numeric("sum_insured_amount"), numeric("premium_amount"), numeric("premium_paid"), numeric("lifetime"),
		plain("activate_at"), plain("expiration_at"), plain("closed"))
	claimTable = newTable(model.KindClaim, []string{"policy_nft_id", "claim_id"},
		numeric("claim_amount"), numeric("confirmed_amount"), plain("state"))
	payoutTable = newTable(model.KindPayout, []string{"policy_nft_id", "payout_id"},
		plain("claim_id"), plain("beneficiary"), numeric("payout_amount"), numeric("paid_amount"), plain("cancelled"))
	oracleRequestTable = newTable(model.KindOracleRequest, []string{"request_id"},
		plain("oracle_nft_id"), plain("requester_nft_id"), plain("expiration_at"), plain("state"),
		plain("object_address"), plain("function_signature"))
	bundleTable = newTable(model.KindBundle, []string{"bundle_nft_id"},
		plain("pool_nft_id"), numeric("lifetime"), plain("locked"), plain("closed"),
		numeric("balance"), numeric("locked_amount"))
)

// SnapshotStatements returns the upserts for every entity, kinds in model.Kinds order.
func SnapshotStatements(snapshot *replay.Snapshot) []Statement {
	var out []Statement
	for _, n := range snapshot.Nfts {
		out = append(out, nftTable.statement(withAudit(n.Audit,
			int64(n.NftID), int64(n.ParentNftID), n.ObjectType.String(), n.ObjectAddress, n.Owner)...))
	}
	for _, i := range snapshot.Instances {
		out = append(out, instanceTable.statement(withAudit(i.Audit,
			int64(i.NftID), i.InstanceAddress)...))
	}
	for _, c := range snapshot.Components {
		out = append(out, componentTable.statement(withAudit(c.Audit,
			int64(c.NftID), int64(c.InstanceNftID), c.ComponentType.String(), c.Token)...))
	}
	for _, r := range snapshot.Risks {
		out = append(out, riskTable.statement(withAudit(r.Audit,
			int64(r.ProductNftID), r.RiskID, r.Locked, r.Closed)...))
	}
	for _, p := range snapshot.Policies {
		out = append(out, policyTable.statement(withAudit(p.Audit,
			int64(p.NftID), int64(p.ProductNftID), int64(p.BundleNftID), p.RiskID, p.ReferralID,
			decimal(p.SumInsuredAmount), decimal(p.PremiumAmount), decimal(p.PremiumPaid), decimal(p.Lifetime),
			optional(p.ActivateAt), optional(p.ExpirationAt), p.Closed)...))
	}
	for _, c := range snapshot.Claims {
		out = append(out, claimTable.statement(withAudit(c.Audit,
			int64(c.PolicyNftID), int32(c.ClaimID), decimal(c.ClaimAmount), nullableDecimal(c.ConfirmedAmount), c.State.String())...))
	}
	for _, p := range snapshot.Payouts {
		out = append(out, payoutTable.statement(withAudit(p.Audit,
			int64(p.PolicyNftID), int64(p.PayoutID), int32(p.ClaimID), p.Beneficiary,
			decimal(p.PayoutAmount), nullableDecimal(p.PaidAmount), p.Cancelled)...))
	}
	for _, r := range snapshot.OracleRequests {
		out = append(out, oracleRequestTable.statement(withAudit(r.Audit,
			int64(r.RequestID), int64(r.OracleNftID), int64(r.RequesterNftID), int64(r.ExpirationAt), r.State.String(),
			r.ObjectAddress, r.FunctionSignature)...))
	}
	for _, b := range snapshot.Bundles {
		out = append(out, bundleTable.statement(withAudit(b.Audit,
			int64(b.BundleNftID), int64(b.PoolNftID), decimal(b.Lifetime), b.Locked, b.Closed,
			decimal(b.Balance), decimal(b.LockedAmount))...))
	}
	return out
}

func withAudit(a model.Audit, args ...any) []any {
	return append(args,
		int64(a.Created.BlockNumber), a.Created.UnixMilli(), a.Created.TxHash, a.Created.From,
		int64(a.Modified.BlockNumber), a.Modified.UnixMilli(), a.Modified.TxHash, a.Modified.From,
	)
}

// decimal renders an amount for a NUMERIC column. Nil amounts are zero.
func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// nullableDecimal keeps an absent amount as NULL.
func nullableDecimal(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func optional(v *uint64) *int64 {
	if v == nil {
		return nil
	}
	out := int64(*v)
	return &out
}
