package contextual

// mod11 computes a CPF/CNPJ check digit over digits with the given weights.
func mod11(digits string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

var (
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func validCPF(d string) bool {
	if len(d) != 11 {
		return false
	}
	return mod11(d, cpfWeights1) == d[9] && mod11(d, cpfWeights2) == d[10]
}

func validCNPJ(d string) bool {
	if len(d) != 14 {
		return false
	}
	return mod11(d, cnpjWeights1) == d[12] && mod11(d, cnpjWeights2) == d[13]
}
