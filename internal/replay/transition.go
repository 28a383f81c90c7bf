package replay

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

// transition carries one event through its handler.
type transition struct {
	state  *State
	stamp  model.Stamp
	logger *zap.Logger
	stats  *Stats
	strict bool
}

type handler func(tr *transition, ev gif.Event) error

// on adapts a typed handler. A payload of another type means the decoder and
// the dispatch table disagree.
func on[E gif.Event](fn func(*transition, E) error) handler {
	return func(tr *transition, ev gif.Event) error {
		typed, ok := ev.(E)
		if !ok {
			return fmt.Errorf("%w: unexpected payload %T", ErrEventNameMismatch, ev)
		}
		return fn(tr, typed)
	}
}

func (tr *transition) anomaly(msg string, fields ...zap.Field) {
	tr.stats.Anomalies++
	tr.logger.Warn(msg, fields...)
}

// create inserts v, which must carry a fresh audit. An existing entry is
// overwritten and reported as an anomaly.
func create[K comparable, V any](tr *transition, store *Store[K, V], kind string, key K, v *V) {
	if store.Put(key, v) {
		tr.anomaly("entity created twice, keeping latest",
			zap.String("entity", kind), zap.Any("key", key))
	}
}

// update applies fn to the existing entry and refreshes its modified stamp.
func update[K comparable, V any, P interface {
	*V
	Touch(model.Stamp)
}](tr *transition, store *Store[K, V], kind string, key K, fn func(P)) error {
	v, ok := store.Get(key)
	if !ok {
		return missing(kind, key)
	}
	p := P(v)
	fn(p)
	p.Touch(tr.stamp)
	return nil
}

func (tr *transition) objectType(code uint8) (model.ObjectType, error) {
	t, ok := model.ParseObjectType(uint64(code))
	if ok {
		return t, nil
	}
	if tr.strict {
		return model.ObjectTypeUnknown, fmt.Errorf("%w: object type %d", ErrInvalidEnumCode, code)
	}
	tr.anomaly("unknown object type mapped to UNKNOWN", zap.Uint8("code", code))
	return model.ObjectTypeUnknown, nil
}

// id narrows a uint96 on-chain id to uint64. Larger values are decode failures.
func id(v *big.Int, field string) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s out of range: %v", ErrDecodeFailure, field, v)
	}
	return v.Uint64(), nil
}

func amount(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func address(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func bytes8(b [8]byte) string {
	return hexutil.Encode(b[:])
}
