package replay

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/gif/giftest"
	"gifIndexer/internal/model"
)

const (
	alice = "0x00000000000000000000000000000000000000aa"
	bob   = "0x00000000000000000000000000000000000000bb"
	carol = "0x00000000000000000000000000000000000000cc"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	decoder, err := gif.NewDecoder()
	require.NoError(t, err)
	return NewEngine(decoder, zap.NewNop(), opts)
}

func replay(t *testing.T, events ...model.EventLog) *Snapshot {
	t.Helper()
	snap, err := newTestEngine(t, DefaultOptions()).Replay(events)
	require.NoError(t, err)
	return snap
}

func registered(b *giftest.Builder, nftID, parentID uint64, objectType uint8, owner string) model.EventLog {
	return b.Log(gif.IRegistry, gif.EventRegistryObjectRegistered,
		giftest.ID(nftID), giftest.ID(parentID), objectType, false,
		giftest.Addr("0x1111111111111111111111111111111111111111"), giftest.Addr(owner))
}

func transfer(b *giftest.Builder, from, to string, nftID uint64) model.EventLog {
	return b.Log(gif.IChainNft, gif.EventTransfer, giftest.Addr(from), giftest.Addr(to), giftest.ID(nftID))
}

func application(b *giftest.Builder, nftID uint64) model.EventLog {
	return b.Log(gif.IApplicationService, gif.EventApplicationCreated,
		giftest.ID(nftID), giftest.ID(3), giftest.ID(4),
		giftest.Bytes8("A"), giftest.Bytes8(""), giftest.Addr(alice),
		giftest.Amount(1000), giftest.Amount(50), giftest.Amount(86400))
}

func fullScenario(b *giftest.Builder) []model.EventLog {
	return []model.EventLog{
		registered(b, 3, 1, uint8(model.ObjectTypeProduct), alice),
		transfer(b, model.ZeroAddress, alice, 3),
		b.Log(gif.IInstanceService, gif.EventInstanceCreated, giftest.ID(2), giftest.Addr(carol)),
		b.Log(gif.IComponentService, gif.EventComponentRegistered,
			giftest.ID(2), giftest.ID(3), uint8(model.ObjectTypeProduct),
			giftest.Addr(bob), giftest.Addr(carol), giftest.Addr(alice)),
		b.Log(gif.IRiskService, gif.EventRiskCreated, giftest.ID(3), giftest.Bytes8("A")),
		b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(4), giftest.ID(5), giftest.Amount(3600)),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(4), giftest.Amount(500)),
		application(b, 10),
		b.Log(gif.IPolicyService, gif.EventPolicyCreated, giftest.ID(10), giftest.Amount(60), giftest.ID(1722506400)),
		b.Log(gif.IBundleService, gif.EventBundleCollateralLocked, giftest.ID(4), giftest.ID(10), giftest.Amount(1000)),
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(10), uint16(1), giftest.Amount(200)),
		b.Log(gif.IClaimService, gif.EventClaimConfirmed, giftest.ID(10), uint16(1), giftest.Amount(150)),
		b.Log(gif.IClaimService, gif.EventPayoutCreated, giftest.ID(10), giftest.ID(1<<24|1), giftest.Amount(150), giftest.Addr(bob)),
		b.Log(gif.IClaimService, gif.EventPayoutProcessed, giftest.ID(10), giftest.ID(1<<24|1), giftest.Amount(150)),
		b.Log(gif.IOracleService, gif.EventOracleRequestCreated, uint64(7), giftest.ID(3), giftest.ID(6), giftest.ID(1722600000)),
		b.Log(gif.IOracleService, gif.EventOracleResponseProcessed, uint64(7), giftest.ID(6)),
		transfer(b, alice, bob, 3),
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	events := fullScenario(giftest.NewBuilder(t))

	first := replay(t, events...)
	second := replay(t, events...)

	assert.NotEqual(t, first.RunID, second.RunID)
	first.RunID, second.RunID = "", ""
	assert.Equal(t, first, second)
	assert.Equal(t, len(events), first.Stats.Applied)
	assert.Zero(t, first.Stats.Skipped())
}

func TestNftTransferUpdatesOwner(t *testing.T) {
	b := giftest.NewBuilder(t)
	reg := registered(b, 3, 1, uint8(model.ObjectTypePolicy), alice)
	mint := transfer(b, model.ZeroAddress, alice, 3)
	move := transfer(b, alice, bob, 3)

	snap := replay(t, reg, mint, move)

	require.Len(t, snap.Nfts, 1)
	nft := snap.Nfts[0]
	assert.Equal(t, model.ObjectTypePolicy, nft.ObjectType)
	assert.Equal(t, bob, nft.Owner)
	assert.Equal(t, reg.BlockNumber, nft.Created.BlockNumber)
	assert.Equal(t, move.BlockNumber, nft.Modified.BlockNumber)
	assert.Equal(t, move.TxHash, nft.Modified.TxHash)
	assert.Equal(t, strings.ToLower(giftest.DefaultSender), nft.Modified.From)
}

func TestNftMintEchoIsNoop(t *testing.T) {
	b := giftest.NewBuilder(t)
	reg := registered(b, 3, 1, uint8(model.ObjectTypePolicy), alice)

	snap := replay(t, reg, transfer(b, model.ZeroAddress, bob, 3))

	require.Len(t, snap.Nfts, 1)
	assert.Equal(t, alice, snap.Nfts[0].Owner)
	assert.Equal(t, reg.BlockNumber, snap.Nfts[0].Modified.BlockNumber)
}

func TestNftTransferBeforeRegistration(t *testing.T) {
	b := giftest.NewBuilder(t)
	move := transfer(b, alice, bob, 9)

	snap := replay(t, move)
	require.Len(t, snap.Nfts, 1)
	placeholder := snap.Nfts[0]
	assert.True(t, placeholder.IsPlaceholder())
	assert.Equal(t, model.ObjectTypeUnknown, placeholder.ObjectType)
	assert.Equal(t, bob, placeholder.Owner)
	assert.Equal(t, move.BlockNumber, placeholder.Created.BlockNumber)
	assert.Equal(t, move.BlockNumber, placeholder.Modified.BlockNumber)
	assert.Equal(t, 1, snap.Stats.Anomalies)

	reg := registered(b, 9, 1, uint8(model.ObjectTypeBundle), alice)
	snap = replay(t, move, reg)
	require.Len(t, snap.Nfts, 1)
	upgraded := snap.Nfts[0]
	assert.Equal(t, model.ObjectTypeBundle, upgraded.ObjectType)
	assert.Equal(t, bob, upgraded.Owner)
	assert.Equal(t, uint64(1), upgraded.ParentNftID)
	assert.Equal(t, move.BlockNumber, upgraded.Created.BlockNumber)
	assert.Equal(t, reg.BlockNumber, upgraded.Modified.BlockNumber)
}

func TestInvalidObjectType(t *testing.T) {
	b := giftest.NewBuilder(t)
	events := []model.EventLog{
		registered(b, 3, 1, 77, alice),
		registered(b, 4, 1, uint8(model.ObjectTypeProduct), alice),
	}

	_, err := newTestEngine(t, DefaultOptions()).Replay(events)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnumCode)
	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, 0, fatal.Position)

	snap, err := newTestEngine(t, Options{}).Replay(events)
	require.NoError(t, err)
	require.Len(t, snap.Nfts, 2)
	assert.Equal(t, model.ObjectTypeUnknown, snap.Nfts[0].ObjectType)
	assert.Equal(t, 1, snap.Stats.Anomalies)
}

func componentRegistered(b *giftest.Builder, instanceID, nftID uint64, componentType uint8, token string) model.EventLog {
	return b.Log(gif.IComponentService, gif.EventComponentRegistered,
		giftest.ID(instanceID), giftest.ID(nftID), componentType,
		giftest.Addr(bob), giftest.Addr(token), giftest.Addr(alice))
}

func TestComponentRegistered(t *testing.T) {
	b := giftest.NewBuilder(t)
	reg := componentRegistered(b, 2, 3, uint8(model.ObjectTypePool), carol)
	snap := replay(t, reg)

	require.Len(t, snap.Components, 1)
	component := snap.Components[0]
	assert.Equal(t, uint64(3), component.NftID)
	assert.Equal(t, uint64(2), component.InstanceNftID)
	assert.Equal(t, model.ObjectTypePool, component.ComponentType)
	assert.Equal(t, carol, component.Token)
	assert.Equal(t, reg.BlockNumber, component.Created.BlockNumber)
	assert.Equal(t, reg.BlockNumber, component.Modified.BlockNumber)
	assert.Equal(t, 1, snap.Stats.Applied)
}

func TestComponentRegisteredInvalidType(t *testing.T) {
	b := giftest.NewBuilder(t)
	events := []model.EventLog{
		componentRegistered(b, 2, 3, uint8(model.ObjectTypeProduct), carol),
		componentRegistered(b, 2, 4, 77, carol),
	}

	_, err := newTestEngine(t, DefaultOptions()).Replay(events)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnumCode)
	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, 1, fatal.Position)
	assert.Equal(t, gif.EventComponentRegistered, fatal.EventName)

	snap, err := newTestEngine(t, Options{}).Replay(events)
	require.NoError(t, err)
	require.Len(t, snap.Components, 2)
	assert.Equal(t, model.ObjectTypeProduct, snap.Components[0].ComponentType)
	assert.Equal(t, model.ObjectTypeUnknown, snap.Components[1].ComponentType)
	assert.Equal(t, 2, snap.Stats.Applied)
	assert.Equal(t, 1, snap.Stats.Anomalies)
}

func TestRiskLifecycle(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		b.Log(gif.IRiskService, gif.EventRiskCreated, giftest.ID(1), giftest.Bytes8("A")),
		b.Log(gif.IRiskService, gif.EventRiskLocked, giftest.ID(1), giftest.Bytes8("A")),
		b.Log(gif.IRiskService, gif.EventRiskClosed, giftest.ID(1), giftest.Bytes8("A")),
		b.Log(gif.IRiskService, gif.EventRiskUpdated, giftest.ID(1), giftest.Bytes8("A")),
		b.Log(gif.IRiskService, gif.EventRiskUnlocked, giftest.ID(1), giftest.Bytes8("B")),
	)

	require.Len(t, snap.Risks, 1)
	risk := snap.Risks[0]
	assert.Equal(t, model.RiskKey{ProductNftID: 1, RiskID: "0x4100000000000000"}, risk.Key())
	assert.True(t, risk.Locked)
	assert.True(t, risk.Closed)
	assert.Equal(t, uint64(3), risk.Modified.BlockNumber)
	assert.Equal(t, 1, snap.Stats.Unhandled)
	assert.Equal(t, 1, snap.Stats.MissingReferences)
}

func TestPolicyLifecycle(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		application(b, 5),
		b.Log(gif.IPolicyService, gif.EventPolicyCreated, giftest.ID(5), giftest.Amount(100), giftest.ID(1722506400)),
		b.Log(gif.IPolicyService, gif.EventPolicyPremiumCollected, giftest.ID(5), giftest.Amount(40)),
		b.Log(gif.IPolicyService, gif.EventPolicyPremiumCollected, giftest.ID(5), giftest.Amount(100)),
		b.Log(gif.IPolicyService, gif.EventPolicyExpirationUpdated, giftest.ID(5), giftest.ID(1725000000)),
		b.Log(gif.IPolicyService, gif.EventPolicyClosed, giftest.ID(5)),
		b.Log(gif.IPolicyService, gif.EventPolicyClosed, giftest.ID(6)),
	)

	require.Len(t, snap.Policies, 1)
	policy := snap.Policies[0]
	assert.Equal(t, uint64(5), policy.NftID)
	assert.Equal(t, uint64(3), policy.ProductNftID)
	assert.Equal(t, uint64(4), policy.BundleNftID)
	assert.Equal(t, "0x4100000000000000", policy.RiskID)
	assert.Equal(t, "0x0000000000000000", policy.ReferralID)
	assert.Equal(t, 0, policy.SumInsuredAmount.Cmp(big.NewInt(1000)))
	assert.Equal(t, 0, policy.PremiumAmount.Cmp(big.NewInt(100)))
	assert.Equal(t, 0, policy.PremiumPaid.Cmp(big.NewInt(100)))
	assert.Equal(t, 0, policy.Lifetime.Cmp(big.NewInt(86400)))
	require.NotNil(t, policy.ActivateAt)
	assert.Equal(t, uint64(1722506400), *policy.ActivateAt)
	require.NotNil(t, policy.ExpirationAt)
	assert.Equal(t, uint64(1725000000), *policy.ExpirationAt)
	assert.True(t, policy.Closed)
	assert.Equal(t, uint64(1), policy.Created.BlockNumber)
	assert.Equal(t, uint64(6), policy.Modified.BlockNumber)
	assert.Equal(t, 1, snap.Stats.MissingReferences)
}

func TestApplicationStartsUnpaid(t *testing.T) {
	snap := replay(t, application(giftest.NewBuilder(t), 5))

	require.Len(t, snap.Policies, 1)
	policy := snap.Policies[0]
	assert.Zero(t, policy.PremiumPaid.Sign())
	assert.Nil(t, policy.ActivateAt)
	assert.Nil(t, policy.ExpirationAt)
	assert.False(t, policy.Closed)
}

func TestClaimLifecycle(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(5), uint16(1), giftest.Amount(10)),
		application(b, 5),
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(5), uint16(1), giftest.Amount(200)),
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(5), uint16(2), giftest.Amount(300)),
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(5), uint16(3), giftest.Amount(400)),
		b.Log(gif.IClaimService, gif.EventClaimConfirmed, giftest.ID(5), uint16(1), giftest.Amount(150)),
		b.Log(gif.IClaimService, gif.EventClaimDeclined, giftest.ID(5), uint16(2)),
		b.Log(gif.IClaimService, gif.EventClaimCanceled, giftest.ID(5), uint16(3)),
		b.Log(gif.IClaimService, gif.EventClaimRevoked, giftest.ID(5), uint16(4)),
	)

	require.Len(t, snap.Claims, 3)
	confirmed, declined, cancelled := snap.Claims[0], snap.Claims[1], snap.Claims[2]

	assert.Equal(t, model.ClaimStateConfirmed, confirmed.State)
	assert.Equal(t, 0, confirmed.ClaimAmount.Cmp(big.NewInt(200)))
	require.NotNil(t, confirmed.ConfirmedAmount)
	assert.Equal(t, 0, confirmed.ConfirmedAmount.Cmp(big.NewInt(150)))

	assert.Equal(t, model.ClaimStateDeclined, declined.State)
	assert.Nil(t, declined.ConfirmedAmount)
	assert.Equal(t, model.ClaimStateCancelled, cancelled.State)

	// the claim before its policy and the revoke of an unknown claim
	assert.Equal(t, 2, snap.Stats.MissingReferences)
}

func TestPayoutDerivesClaimID(t *testing.T) {
	b := giftest.NewBuilder(t)
	const local = 7
	snap := replay(t,
		application(b, 5),
		b.Log(gif.IClaimService, gif.EventClaimSubmitted, giftest.ID(5), uint16(2), giftest.Amount(200)),
		b.Log(gif.IClaimService, gif.EventPayoutCreated, giftest.ID(5), giftest.ID(2<<24|local), giftest.Amount(80), giftest.Addr(carol)),
		b.Log(gif.IClaimService, gif.EventPayoutCreated, giftest.ID(5), giftest.ID(3<<24|local), giftest.Amount(90), giftest.Addr(carol)),
		b.Log(gif.IClaimService, gif.EventPayoutProcessed, giftest.ID(5), giftest.ID(2<<24|local), giftest.Amount(80)),
		b.Log(gif.IClaimService, gif.EventPayoutCancelled, giftest.ID(5), giftest.ID(3<<24|local)),
	)

	require.Len(t, snap.Payouts, 1)
	payout := snap.Payouts[0]
	assert.Equal(t, model.PayoutKey{PolicyNftID: 5, PayoutID: 2<<24 | local}, payout.Key())
	assert.Equal(t, uint16(2), payout.ClaimID)
	assert.Equal(t, carol, payout.Beneficiary)
	assert.Equal(t, 0, payout.PayoutAmount.Cmp(big.NewInt(80)))
	require.NotNil(t, payout.PaidAmount)
	assert.Equal(t, 0, payout.PaidAmount.Cmp(big.NewInt(80)))
	assert.False(t, payout.Cancelled)
	// payout for missing claim 3 and its cancel
	assert.Equal(t, 2, snap.Stats.MissingReferences)
}

func TestOracleRequestStates(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		b.Log(gif.IOracleService, gif.EventOracleRequestCreated, uint64(1), giftest.ID(3), giftest.ID(6), giftest.ID(100)),
		b.Log(gif.IOracleService, gif.EventOracleRequestCreated, uint64(2), giftest.ID(3), giftest.ID(6), giftest.ID(200)),
		b.Log(gif.IOracleService, gif.EventOracleRequestCreated, uint64(3), giftest.ID(3), giftest.ID(6), giftest.ID(300)),
		b.Log(gif.IOracleService, gif.EventOracleResponseProcessed, uint64(1), giftest.ID(6)),
		b.Log(gif.IOracleService, gif.EventOracleDeliveryFailed, uint64(2), giftest.Addr(bob), "callback(uint64)"),
		b.Log(gif.IOracleService, gif.EventOracleResponseResent, uint64(2), giftest.ID(3)),
		b.Log(gif.IOracleService, gif.EventOracleRequestCancelled, uint64(3), giftest.ID(3)),
		b.Log(gif.IOracleService, gif.EventOracleRequestCancelled, uint64(4), giftest.ID(3)),
	)

	require.Len(t, snap.OracleRequests, 3)
	fulfilled, resent, cancelled := snap.OracleRequests[0], snap.OracleRequests[1], snap.OracleRequests[2]

	assert.Equal(t, model.OracleRequestFulfilled, fulfilled.State)
	assert.Equal(t, uint64(6), fulfilled.OracleNftID)
	assert.Equal(t, uint64(3), fulfilled.RequesterNftID)
	assert.Equal(t, uint64(100), fulfilled.ExpirationAt)
	assert.Nil(t, fulfilled.ObjectAddress)

	assert.Equal(t, model.OracleRequestResent, resent.State)
	require.NotNil(t, resent.ObjectAddress)
	assert.Equal(t, bob, *resent.ObjectAddress)
	require.NotNil(t, resent.FunctionSignature)
	assert.Equal(t, "callback(uint64)", *resent.FunctionSignature)

	assert.Equal(t, model.OracleRequestCancelled, cancelled.State)
	assert.Equal(t, 1, snap.Stats.MissingReferences)
}

func TestBundleRunningSums(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(4), giftest.ID(5), giftest.Amount(3600)),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(4), giftest.Amount(100)),
		b.Log(gif.IBundleService, gif.EventBundleUnstaked, giftest.ID(4), giftest.Amount(40)),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(4), giftest.Amount(10)),
		b.Log(gif.IBundleService, gif.EventBundleCollateralLocked, giftest.ID(4), giftest.ID(10), giftest.Amount(50)),
		b.Log(gif.IBundleService, gif.EventBundleCollateralReleased, giftest.ID(4), giftest.ID(10), giftest.Amount(20)),
		b.Log(gif.IBundleService, gif.EventBundleExtended, giftest.ID(4), giftest.Amount(400), giftest.Amount(99999)),
		b.Log(gif.IBundleService, gif.EventBundleLocked, giftest.ID(4)),
		b.Log(gif.IBundleService, gif.EventBundleUnlocked, giftest.ID(4)),
		b.Log(gif.IBundleService, gif.EventBundleClosed, giftest.ID(4)),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(8), giftest.Amount(10)),
	)

	require.Len(t, snap.Bundles, 1)
	bundle := snap.Bundles[0]
	assert.Equal(t, uint64(5), bundle.PoolNftID)
	assert.Equal(t, "70", bundle.Balance.String())
	assert.Equal(t, "30", bundle.LockedAmount.String())
	assert.Equal(t, "4000", bundle.Lifetime.String())
	assert.False(t, bundle.Locked)
	assert.True(t, bundle.Closed)
	assert.Equal(t, 1, snap.Stats.MissingReferences)
}

func TestBundleAmountsDoNotOverflow(t *testing.T) {
	b := giftest.NewBuilder(t)
	max96 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))
	snap := replay(t,
		b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(4), giftest.ID(5), giftest.Amount(0)),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(4), max96),
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(4), max96),
	)

	want := new(big.Int).Mul(max96, big.NewInt(2))
	assert.Equal(t, 0, snap.Bundles[0].Balance.Cmp(want))
}

func TestCreateTwiceKeepsLatest(t *testing.T) {
	b := giftest.NewBuilder(t)
	snap := replay(t,
		b.Log(gif.IInstanceService, gif.EventInstanceCreated, giftest.ID(2), giftest.Addr(alice)),
		b.Log(gif.IInstanceService, gif.EventInstanceCreated, giftest.ID(2), giftest.Addr(bob)),
	)

	require.Len(t, snap.Instances, 1)
	assert.Equal(t, bob, snap.Instances[0].InstanceAddress)
	assert.Equal(t, 1, snap.Stats.Anomalies)
}

func TestEventNameMismatchIsFatal(t *testing.T) {
	b := giftest.NewBuilder(t)
	created := b.Log(gif.IRiskService, gif.EventRiskCreated, giftest.ID(1), giftest.Bytes8("A"))
	wrong := b.Log(gif.IRiskService, gif.EventRiskClosed, giftest.ID(1), giftest.Bytes8("A"))
	wrong.EventName = gif.EventRiskLocked
	after := b.Log(gif.IRiskService, gif.EventRiskCreated, giftest.ID(2), giftest.Bytes8("B"))

	snap, err := newTestEngine(t, DefaultOptions()).Replay([]model.EventLog{created, wrong, after})
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrEventNameMismatch)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, 1, fatal.Position)
	assert.Equal(t, gif.EventRiskLocked, fatal.EventName)
	assert.Equal(t, wrong.TxHash, fatal.TxHash)
}

type staticDecoder struct {
	event gif.Event
}

func (d staticDecoder) Decode(gif.Interface, model.EventLog) (gif.Event, error) {
	return d.event, nil
}

func TestPayloadTypeMismatchIsFatal(t *testing.T) {
	b := giftest.NewBuilder(t)
	log := b.Log(gif.IPolicyService, gif.EventPolicyClosed, giftest.ID(1))

	decoder := staticDecoder{event: gif.PolicyClosed{PolicyNftId: big.NewInt(1)}}
	_, err := NewEngine(decoder, zap.NewNop(), DefaultOptions()).Replay([]model.EventLog{log})
	assert.ErrorIs(t, err, ErrEventNameMismatch)
}

func TestDecodeFailureIsSkipped(t *testing.T) {
	b := giftest.NewBuilder(t)
	broken := b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(4), giftest.ID(5), giftest.Amount(1))
	broken.Data = broken.Data[:20]
	badTime := b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(6), giftest.ID(5), giftest.Amount(1))
	badTime.BlockTime = "yesterday"
	good := b.Log(gif.IBundleService, gif.EventBundleCreated, giftest.ID(7), giftest.ID(5), giftest.Amount(1))
	unknown := good
	unknown.EventName = "LogSomethingNew"

	var failed []model.EventLog
	opts := DefaultOptions()
	opts.OnDecodeError = func(log model.EventLog, err error) {
		assert.ErrorIs(t, err, ErrDecodeFailure)
		failed = append(failed, log)
	}
	snap, err := newTestEngine(t, opts).Replay([]model.EventLog{broken, badTime, good, unknown})
	require.NoError(t, err)

	require.Len(t, snap.Bundles, 1)
	assert.Equal(t, uint64(7), snap.Bundles[0].BundleNftID)
	assert.Equal(t, Stats{Processed: 4, Applied: 1, DecodeFailures: 2, Unknown: 1}, snap.Stats)
	require.Len(t, failed, 2)
	assert.Equal(t, broken.TxHash, failed[0].TxHash)
	assert.Equal(t, badTime.TxHash, failed[1].TxHash)
}

func TestHandledEventsMatchDecoder(t *testing.T) {
	decoder, err := gif.NewDecoder()
	require.NoError(t, err)

	handled := HandledEvents()
	for _, binding := range decoder.Bindings() {
		if iface, ok := unhandledEvents[binding.EventName]; ok {
			assert.Equal(t, binding.Interface, iface, binding.EventName)
			continue
		}
		iface, ok := handled[binding.EventName]
		if assert.True(t, ok, "no handler for %s", binding.EventName) {
			assert.Equal(t, binding.Interface, iface, binding.EventName)
		}
	}
	assert.Len(t, handled, len(decoder.Bindings())-len(unhandledEvents))
}
