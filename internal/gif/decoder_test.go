package gif_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/gif/giftest"
)

func newDecoder(t *testing.T) *gif.Decoder {
	t.Helper()
	decoder, err := gif.NewDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	return decoder
}

func TestDecodeRegistryObjectRegistered(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	objectAddr := giftest.Addr("0x1111111111111111111111111111111111111111")
	owner := giftest.Addr("0x2222222222222222222222222222222222222222")
	log := b.Log(gif.IRegistry, gif.EventRegistryObjectRegistered,
		giftest.ID(33133705), giftest.ID(23133705), uint8(21), false, objectAddr, owner)

	event, err := decoder.Decode(gif.IRegistry, log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	registered, ok := event.(*gif.RegistryObjectRegistered)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", event)
	}
	if registered.NftId.Uint64() != 33133705 || registered.ParentNftId.Uint64() != 23133705 {
		t.Fatalf("ids mismatch: %+v", registered)
	}
	if registered.ObjectType != 21 || registered.IsInterceptor {
		t.Fatalf("object type mismatch: %+v", registered)
	}
	if registered.ObjectAddress != objectAddr || registered.InitialOwner != owner {
		t.Fatalf("address mismatch: %+v", registered)
	}
}

func TestDecodeEmbeddedPayloads(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	risk, err := decoder.Decode(gif.IRiskService,
		b.Log(gif.IRiskService, gif.EventRiskLocked, giftest.ID(7), giftest.Bytes8("risk-1")))
	if err != nil {
		t.Fatalf("decode risk: %v", err)
	}
	locked, ok := risk.(*gif.RiskLocked)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", risk)
	}
	if locked.ProductNftId.Uint64() != 7 || locked.RiskId != giftest.Bytes8("risk-1") {
		t.Fatalf("risk payload mismatch: %+v", locked)
	}

	closed, err := decoder.Decode(gif.IBundleService,
		b.Log(gif.IBundleService, gif.EventBundleClosed, giftest.ID(99)))
	if err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if c, ok := closed.(*gif.BundleClosed); !ok || c.BundleNftId.Uint64() != 99 {
		t.Fatalf("bundle payload mismatch: %#v", closed)
	}

	staked, err := decoder.Decode(gif.IBundleService,
		b.Log(gif.IBundleService, gif.EventBundleStaked, giftest.ID(99), giftest.Amount(100)))
	if err != nil {
		t.Fatalf("decode stake: %v", err)
	}
	if s, ok := staked.(*gif.BundleStaked); !ok || s.Amount.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("stake payload mismatch: %#v", staked)
	}
}

func TestDecodeOracleDeliveryFailed(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	requester := giftest.Addr("0x3333333333333333333333333333333333333333")
	log := b.Log(gif.IOracleService, gif.EventOracleDeliveryFailed,
		uint64(42), requester, "callback(uint64)")

	event, err := decoder.Decode(gif.IOracleService, log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	failed, ok := event.(*gif.OracleDeliveryFailed)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", event)
	}
	if failed.RequestId != 42 || failed.RequesterAddress != requester || failed.FunctionSignature != "callback(uint64)" {
		t.Fatalf("payload mismatch: %+v", failed)
	}
}

func TestDecodeTransfer(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	from := giftest.Addr("0x00000000000000000000000000000000000000aa")
	to := giftest.Addr("0x00000000000000000000000000000000000000bb")
	log := b.Log(gif.IChainNft, gif.EventTransfer, from, to, giftest.ID(5))
	if log.Data != "0x" {
		t.Fatalf("transfer data should be empty, got %s", log.Data)
	}

	event, err := decoder.Decode(gif.IChainNft, log)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	transfer, ok := event.(*gif.Transfer)
	if !ok {
		t.Fatalf("decoded type mismatch: %T", event)
	}
	if transfer.From != from || transfer.To != to || transfer.TokenId.Uint64() != 5 {
		t.Fatalf("transfer mismatch: %+v", transfer)
	}

	log.Topic3 = ""
	if _, err := decoder.Decode(gif.IChainNft, log); err == nil {
		t.Fatalf("expected error for missing tokenId topic")
	}
}

func TestDecodeFailures(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	log := b.Log(gif.IPolicyService, gif.EventPolicyClosed, giftest.ID(1))

	if _, err := decoder.Decode(gif.IClaimService, log); !errors.Is(err, gif.ErrUnknownEvent) {
		t.Fatalf("expected unknown event on wrong interface, got %v", err)
	}

	truncated := log
	truncated.Data = log.Data[:10]
	if _, err := decoder.Decode(gif.IPolicyService, truncated); err == nil {
		t.Fatalf("expected unpack error for truncated data")
	}

	badTopic := log
	badTopic.Topic0 = "0xzz"
	if _, err := decoder.Decode(gif.IPolicyService, badTopic); err == nil {
		t.Fatalf("expected error for malformed topic")
	}

	noTopics := log
	noTopics.Topic0 = ""
	if _, err := decoder.Decode(gif.IPolicyService, noTopics); err == nil {
		t.Fatalf("expected error for missing topics")
	}
}

func TestDecoderLookup(t *testing.T) {
	decoder := newDecoder(t)
	b := giftest.NewBuilder(t)

	log := b.Log(gif.IClaimService, gif.EventPayoutCreated,
		giftest.ID(1), giftest.ID(1<<24), giftest.Amount(10), giftest.Addr("0x01"))

	binding, ok := decoder.Lookup(strings.ToUpper(log.Topic0[2:]))
	if ok {
		t.Fatalf("lookup without 0x prefix should fail: %+v", binding)
	}
	binding, ok = decoder.Lookup(log.Topic0)
	if !ok {
		t.Fatalf("lookup failed for %s", log.Topic0)
	}
	if binding.Interface != gif.IClaimService || binding.EventName != gif.EventPayoutCreated {
		t.Fatalf("binding mismatch: %+v", binding)
	}

	topic, ok := decoder.Topic0(gif.EventPayoutCreated)
	if !ok || topic.Hex() != log.Topic0 {
		t.Fatalf("topic0 mismatch: %s != %s", topic.Hex(), log.Topic0)
	}

	bindings := decoder.Bindings()
	if len(bindings) != 36 {
		t.Fatalf("expected 36 bindings, got %d", len(bindings))
	}
}
