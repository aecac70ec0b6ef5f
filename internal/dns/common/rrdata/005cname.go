package rrdata

func validateCNAMEData(data string) error {
	return validateTarget("CNAME", data)
}
