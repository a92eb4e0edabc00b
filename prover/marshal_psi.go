package prover

import (
	"encoding/json"
	"fmt"
	"math/big"
)

type PsiParametersJSON struct {
	SetA             []string `json:"setA"`
	SetB             []string `json:"setB"`
	IntersectionSize uint32   `json:"intersectionSize"`
}

func ParseInput(inputJSON string) (PsiParameters, error) {
	var params PsiParameters
	err := json.Unmarshal([]byte(inputJSON), &params)
	if err != nil {
		return PsiParameters{}, fmt.Errorf("error parsing JSON: %v", err)
	}
	return params, nil
}

func (p *PsiParameters) MarshalJSON() ([]byte, error) {
	paramsJson := PsiParametersJSON{}

	paramsJson.SetA = make([]string, len(p.SetA))
	for i := 0; i < len(p.SetA); i++ {
		paramsJson.SetA[i] = toHex(&p.SetA[i])
	}

	paramsJson.SetB = make([]string, len(p.SetB))
	for i := 0; i < len(p.SetB); i++ {
		paramsJson.SetB[i] = toHex(&p.SetB[i])
	}

	paramsJson.IntersectionSize = p.IntersectionSize

	return json.Marshal(paramsJson)
}

func (p *PsiParameters) UnmarshalJSON(data []byte) error {
	var params PsiParametersJSON

	err := json.Unmarshal(data, &params)
	if err != nil {
		return err
	}

	p.SetA = make([]big.Int, len(params.SetA))
	for i := 0; i < len(params.SetA); i++ {
		err = fromHex(&p.SetA[i], params.SetA[i])
		if err != nil {
			return err
		}
	}

	p.SetB = make([]big.Int, len(params.SetB))
	for i := 0; i < len(params.SetB); i++ {
		err = fromHex(&p.SetB[i], params.SetB[i])
		if err != nil {
			return err
		}
	}

	p.IntersectionSize = params.IntersectionSize

	return nil
}
