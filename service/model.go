package service

// sqlite models

// Activity is one row of the public activity feed, derived from committed
// ledger events. The ledger stays authoritative; these rows are a rebuildable
// projection.
type Activity struct {
	Id       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Type     string `json:"type"`
	Account  uint64 `json:"account"`
	Address  string `json:"address"`
	Dataset  uint64 `json:"dataset"`
	Proposal uint64 `json:"proposal"`
	Amount   string `json:"amount"`
	Detail   string `json:"detail"`
	Height   uint64 `json:"height"`
}

// PurchaseReceipt records one completed purchase for buyer history queries.
type PurchaseReceipt struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Dataset      uint64 `json:"dataset"`
	Buyer        uint64 `json:"buyer"`
	BuyerAddress string `json:"buyer_address"`
	Price        string `json:"price"`
	Height       uint64 `json:"height"`
}

type IndexHeight struct {
	Id     uint64 `gorm:"primaryKey" json:"id"`
	Height uint64 `json:"height"`
}
