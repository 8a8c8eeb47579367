package core

// fakeTx is a minimal TxSenderContext for tests across this package.
type fakeTx struct {
	version     int
	id          int64
	recipientID int64
	senderID    int64
	timestamp   int32
	height      int32
}

func (f fakeTx) Version() int       { return f.version }
func (f fakeTx) ID() int64          { return f.id }
func (f fakeTx) RecipientID() int64 { return f.recipientID }
func (f fakeTx) Timestamp() int32   { return f.timestamp }
func (f fakeTx) Height() int32      { return f.height }
func (f fakeTx) SenderID() int64    { return f.senderID }

func testContext() Context {
	return Context{
		Accounts: NewMemoryAccountStore(),
		Prunable: NewMemoryPrunableStore(),
		Chain:    DefaultChainConfig(),
		Clock:    ClockFunc(func() int32 { return 1_700_000_000 }),
		Crypto:   DefaultCrypto{},
	}
}
