package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Gambling transactions
	TransactionTypeGambleStake  TransactionType = "gamble_stake"
	TransactionTypeGamblePayout TransactionType = "gamble_payout"

	// Earning transactions
	TransactionTypeWork       TransactionType = "work"
	TransactionTypeChatReward TransactionType = "chat_reward"

	// Robbery transactions
	TransactionTypeRobGain    TransactionType = "rob_gain"
	TransactionTypeRobLoss    TransactionType = "rob_loss"
	TransactionTypeRobPenalty TransactionType = "rob_penalty"

	// Transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Administrative transactions
	TransactionTypeAdminGrant  TransactionType = "admin_grant"
	TransactionTypeAdminRevoke TransactionType = "admin_revoke"
)

// IsCredit returns true if the transaction type adds currency to a balance
func (tt TransactionType) IsCredit() bool {
	switch tt {
	case TransactionTypeGamblePayout, TransactionTypeWork, TransactionTypeChatReward,
		TransactionTypeRobGain, TransactionTypeTransferIn, TransactionTypeAdminGrant:
		return true
	}
	return false
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
