package model

// DecodeError records an event row that could not be decoded during replay.
type DecodeError struct {
	BlockNumber     uint64 `json:"block_number"`
	TxHash          string `json:"tx_hash"`
	Index           uint64 `json:"index"`
	ContractAddress string `json:"contract_address"`
	EventName       string `json:"event_name"`
	Topic0          string `json:"topic0"`
	Error           string `json:"error"`
}

// NewDecodeError builds a DecodeError from the offending row.
func NewDecodeError(log EventLog, err error) DecodeError {
	return DecodeError{
		BlockNumber:     log.BlockNumber,
		TxHash:          log.TxHash,
		Index:           log.Index,
		ContractAddress: log.ContractAddress,
		EventName:       log.EventName,
		Topic0:          log.Topic0,
		Error:           err.Error(),
	}
}
