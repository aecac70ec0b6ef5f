package rrdata

func validatePTRData(data string) error {
	return validateTarget("PTR", data)
}
