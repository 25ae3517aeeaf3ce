package blockchain

import (
	"rafflehub/internal/raffle"

	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
)

// NormalizeAccount maps any accepted TON address form to the raw form, so
// the same wallet always yields the same identity.
func NormalizeAccount(address string) (raffle.AccountID, error) {
	accountID, err := ton.ParseAccountID(address)
	if err != nil {
		return "", err
	}
	return raffle.AccountID(accountID.ToRaw()), nil
}

// DecodeTextComment reads a text comment message body (op code 0 followed by
// snake-encoded text) from a hex BOC.
func DecodeTextComment(rawBodyHex string) (string, error) {
	body, err := boc.DeserializeBocHex(rawBodyHex)
	if err != nil {
		return "", err
	}

	bodyCell := body[0]
	if err := bodyCell.Skip(32); err != nil { //op-code
		return "", err
	}

	var text tlb.Text
	if err := tlb.Unmarshal(bodyCell, &text); err != nil {
		return "", err
	}
	return string(text), nil
}
