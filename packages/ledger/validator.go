package ledger

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/spendlabs/txcore/packages/coin"
	"github.com/spendlabs/txcore/packages/utxo"
)

// region Validator ////////////////////////////////////////////////////////////////////////////////////////////////////

// Validator performs the verification of Transactions. It never mutates any state: resolving consumed outputs goes
// through the OutputResolver handed to it per call, so the same Validator serves both the authoritative mapping and
// any speculative overlay.
type Validator struct {
	maxInputCount               int
	signatureValidationDisabled bool
	parallelSignatureChecks     bool
}

// NewValidator returns a new Validator with the given options.
func NewValidator(opts ...Option) *Validator {
	return newValidator(newOptions(opts...))
}

func newValidator(opts *options) *Validator {
	return &Validator{
		maxInputCount:               opts.maxInputCount,
		signatureValidationDisabled: opts.signatureValidationDisabled,
		parallelSignatureChecks:     opts.parallelSignatureChecks,
	}
}

// VerifyTransactionAlone checks the context-free properties of a Transaction: it has to consume at least one and at
// most maxInputCount distinct outputs and create at least one output holding a positive amount of coins. All failed
// properties are accumulated and returned together as a *VerificationError.
func (v *Validator) VerifyTransactionAlone(transaction *utxo.Transaction) (err error) {
	verificationErr := newVerificationError()
	v.checkStructure(transaction, verificationErr)
	if verificationErr.failed() {
		return verificationErr
	}

	return nil
}

// VerifyTransaction checks a Transaction against the unspent output mapping presented by the given OutputResolver. It
// runs the context-free checks first, then resolves the consumed outputs, verifies the spending signatures and
// compares the consumed against the created value. Verification does not stop at the first failure: every violated
// property is accumulated into the returned *VerificationError. On success it returns a TransactionUndo that preserves
// the consumed outputs.
func (v *Validator) VerifyTransaction(transaction *utxo.Transaction, resolver OutputResolver) (undo *TransactionUndo, err error) {
	verificationErr := newVerificationError()
	v.checkStructure(transaction, verificationErr)

	undo = NewTransactionUndo()
	resolvedInputs := make([]*resolvedInput, 0, len(transaction.Inputs()))
	for _, input := range transaction.Inputs() {
		outputID := input.ConsumedOutputID()
		outputInfo, exists := resolver.ResolveOutput(outputID)
		if !exists {
			verificationErr.report(ViolationUnresolvedInput, errors.Errorf("input %s does not resolve to an unspent output", outputID))
			continue
		}

		undo.RecordSpend(outputID, outputInfo)
		resolvedInputs = append(resolvedInputs, &resolvedInput{
			input:      input,
			outputInfo: outputInfo,
		})
	}

	if !v.signatureValidationDisabled {
		v.checkSignatures(transaction, resolvedInputs, verificationErr)
	}
	v.checkValue(transaction, resolvedInputs, verificationErr)

	if verificationErr.failed() {
		return nil, verificationErr
	}

	return undo, nil
}

// checkStructure reports the violated context-free properties of a Transaction.
func (v *Validator) checkStructure(transaction *utxo.Transaction, verificationErr *VerificationError) {
	inputs := transaction.Inputs()
	if len(inputs) == 0 {
		verificationErr.report(ViolationEmptyInputs, errors.New("transaction does not consume any outputs"))
	}
	if len(inputs) > v.maxInputCount {
		verificationErr.report(ViolationTooManyInputs, errors.Errorf("transaction consumes %d outputs but only %d are allowed", len(inputs), v.maxInputCount))
	}

	consumedOutputIDs := utxo.NewOutputIDs()
	for _, input := range inputs {
		if !consumedOutputIDs.Add(input.ConsumedOutputID()) {
			verificationErr.report(ViolationDuplicateInputs, errors.Errorf("output %s is consumed more than once", input.ConsumedOutputID()))
		}
	}

	outputs := transaction.Outputs()
	if len(outputs) == 0 {
		verificationErr.report(ViolationEmptyOutputs, errors.New("transaction does not create any outputs"))
	}
	for index, output := range outputs {
		if output.Balance() == 0 || output.Balance() > coin.MaxCoinValue {
			verificationErr.report(ViolationNonPositiveOutput, errors.Errorf("output %d does not hold a positive amount of coins", index))
		}
	}
}

// checkSignatures verifies that every resolved input carries a signature that covers the spend and belongs to the
// address holding the consumed output. The checks are independent of each other, so they are dispatched to the shared
// goroutine pool when parallel verification is enabled.
func (v *Validator) checkSignatures(transaction *utxo.Transaction, resolvedInputs []*resolvedInput, verificationErr *VerificationError) {
	if !v.parallelSignatureChecks || len(resolvedInputs) <= 1 {
		for _, resolved := range resolvedInputs {
			if reason := v.checkSignature(transaction, resolved); reason != nil {
				verificationErr.report(ViolationBadSignature, reason)
			}
		}
		return
	}

	var (
		wg      sync.WaitGroup
		mutex   sync.Mutex
		reasons []error
	)
	for _, resolved := range resolvedInputs {
		resolved := resolved

		wg.Add(1)
		check := func() {
			defer wg.Done()

			if reason := v.checkSignature(transaction, resolved); reason != nil {
				mutex.Lock()
				defer mutex.Unlock()
				reasons = append(reasons, reason)
			}
		}
		if err := ants.Submit(check); err != nil {
			check()
		}
	}
	wg.Wait()

	for _, reason := range reasons {
		verificationErr.report(ViolationBadSignature, reason)
	}
}

// checkSignature verifies a single input and returns the reason for its rejection (if any).
func (v *Validator) checkSignature(transaction *utxo.Transaction, resolved *resolvedInput) (reason error) {
	outputID := resolved.input.ConsumedOutputID()

	signature := resolved.input.Signature()
	if signature == nil {
		return errors.Errorf("input %s does not carry a signature", outputID)
	}
	if signature.Address() != resolved.outputInfo.Output().Address() {
		return errors.Errorf("input %s is signed by a key that does not control the consumed output", outputID)
	}
	if !signature.IsValid(transaction.SigningPayload(outputID)) {
		return errors.Errorf("input %s carries an invalid signature", outputID)
	}

	return nil
}

// checkValue verifies that the resolved inputs provide at least as many coins as the outputs consume. The comparison
// is carried out on wide integers, so it stays exact even for sums beyond the range of a single Coin.
func (v *Validator) checkValue(transaction *utxo.Transaction, resolvedInputs []*resolvedInput, verificationErr *VerificationError) {
	consumedCoins := make([]coin.Coin, 0, len(resolvedInputs))
	for _, resolved := range resolvedInputs {
		consumedCoins = append(consumedCoins, resolved.outputInfo.Output().Balance())
	}

	consumed := coin.Sum(consumedCoins...)
	created := transaction.Outputs().TotalBalance()
	if consumed.Cmp(created) < 0 {
		verificationErr.report(ViolationInsufficientValue, errors.Errorf("transaction creates %s coins but only consumes %s", created, consumed))
	}
}

// resolvedInput ties an input to the unspent output it consumes.
type resolvedInput struct {
	input      *utxo.Input
	outputInfo *utxo.OutputInfo
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
