package reconcile

import "desyncScope/internal/model"

// ExtractOffenders returns the parties of a failed match whose order nonce did
// not match their chain nonce. The taker comes first, then makers in listed
// order. Only an explicit valid=false marks a party as an offender.
func ExtractOffenders(record model.FailedMatchRecord) []model.Offender {
	var offenders []model.Offender
	if !record.TakerIsValid() {
		offenders = append(offenders, model.Offender{
			Address:    model.NormalizeAddress(record.TakerMaker),
			OrderNonce: record.TakerOrderNonce.Uint64(),
			ChainNonce: record.TakerChainNonce.Uint64(),
			Side:       model.SideTaker,
		})
	}

	for _, check := range record.MakerChecks {
		if check.IsValid() {
			continue
		}
		offenders = append(offenders, model.Offender{
			Address:    model.NormalizeAddress(check.Maker),
			OrderNonce: check.OrderNonce.Uint64(),
			ChainNonce: check.ChainNonce.Uint64(),
			Side:       model.SideMaker,
		})
	}
	return offenders
}
