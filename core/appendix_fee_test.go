package core

import "testing"

// scheduleChangeAppendix is a minimal Appendix used only to exercise
// ComputeFee's height-gated switch from BaselineFee to NextFee (spec §4.3).
// No shipped kind in this subsystem changes fee by height, but the contract
// is part of the Appendix interface regardless and must work for any future
// kind that does.
type scheduleChangeAppendix struct {
	defaultFeeSchedule
	notPhased
	effectiveSize int64
}

func (scheduleChangeAppendix) Kind() Kind                              { return KindPlainMessage }
func (scheduleChangeAppendix) Version() uint8                          { return 1 }
func (scheduleChangeAppendix) Size() int                               { return 0 }
func (scheduleChangeAppendix) FullSize() int                           { return 0 }
func (scheduleChangeAppendix) WriteBinary(*Buffer) error               { return nil }
func (scheduleChangeAppendix) ToJSON() map[string]interface{}          { return nil }
func (scheduleChangeAppendix) NextFeeHeight() int32                    { return 100 }
func (a scheduleChangeAppendix) FeeEffectiveSize() int64               { return a.effectiveSize }
func (scheduleChangeAppendix) Validate(TxSenderContext, Context) error { return nil }
func (scheduleChangeAppendix) Apply(TxSenderContext, Context) error    { return nil }
func (scheduleChangeAppendix) BaselineFee(TxContext, ChainConfig) Fee  { return SizeBasedFee(1, 0, 32) }
func (scheduleChangeAppendix) NextFee(TxContext, ChainConfig) Fee      { return SizeBasedFee(9, 0, 32) }

func TestComputeFeeSwitchesScheduleAtNextFeeHeight(t *testing.T) {
	a := scheduleChangeAppendix{effectiveSize: 0}
	chain := DefaultChainConfig()
	tx := fakeTx{height: 99}

	fee, err := ComputeFee(a, tx, chain, 99)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 1 {
		t.Fatalf("below NextFeeHeight: got fee %d, want baseline 1", fee)
	}

	fee, err = ComputeFee(a, tx, chain, 100)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 9 {
		t.Fatalf("at NextFeeHeight: got fee %d, want next 9", fee)
	}

	fee, err = ComputeFee(a, tx, chain, 101)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 9 {
		t.Fatalf("past NextFeeHeight: got fee %d, want next 9", fee)
	}
}
