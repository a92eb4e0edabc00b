package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"zkpsi/psi-prover/encoding"
	"zkpsi/psi-prover/logging"
	"zkpsi/psi-prover/prover"

	"github.com/gorilla/handlers"
)

type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func malformedBodyError(err error) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: "malformed_body", Message: err.Error()}
}

func provingError(err error) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: "proving_error", Message: err.Error()}
}

func unexpectedError(err error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Code: "unexpected_error", Message: err.Error()}
}

func (error *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"code":    error.Code,
		"message": error.Message,
	})
}

func (error *Error) send(w http.ResponseWriter) {
	w.WriteHeader(error.StatusCode)
	jsonBytes, err := error.MarshalJSON()
	if err != nil {
		jsonBytes = []byte(`{"code": "unexpected_error", "message": "failed to marshal error"}`)
	}
	length, err := w.Write(jsonBytes)
	if err != nil || length != len(jsonBytes) {
		logging.Logger().Error().Err(err).Msg("error writing response")
	}
}

type Config struct {
	ProverAddress  string
	MetricsAddress string
}

func spawnServerJob(server *http.Server, label string) RunningJob {
	start := func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("%s failed: %s", label, err))
		}
	}
	shutdown := func() {
		logging.Logger().Info().Msgf("shutting down %s", label)
		err := server.Shutdown(context.Background())
		if err != nil {
			logging.Logger().Error().Err(err).Msgf("error when shutting down %s", label)
		}
		logging.Logger().Info().Msgf("%s shut down", label)
	}
	return SpawnJob(start, shutdown)
}

func Run(config *Config, encoder *encoding.Encoder, systems []*prover.ProvingSystem) RunningJob {
	metricsMux := http.NewServeMux()
	metricsServer := &http.Server{Addr: config.MetricsAddress, Handler: metricsMux}
	metricsJob := spawnServerJob(metricsServer, "metrics server")
	logging.Logger().Info().Str("addr", config.MetricsAddress).Msg("metrics server started")

	proverMux := http.NewServeMux()
	proverMux.Handle("/prove", proveHandler{systems: systems, encoder: encoder})
	proverMux.Handle("/health", healthHandler{})

	corsHandler := handlers.CORS(
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}),
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)

	proverServer := &http.Server{Addr: config.ProverAddress, Handler: corsHandler(proverMux)}
	proverJob := spawnServerJob(proverServer, "prover server")
	logging.Logger().Info().Str("addr", config.ProverAddress).Msg("app server started")

	return CombineJobs(metricsJob, proverJob)
}

type proveHandler struct {
	systems []*prover.ProvingSystem
	encoder *encoding.Encoder
}

type healthHandler struct {
}

type requestKind int

const (
	elementsRequest requestKind = iota
	textRequest
)

// parseRequestKind classifies a prove request by which set keys the JSON
// body carries: setA for pre-encoded field elements, textA for raw strings.
func parseRequestKind(buf []byte) (requestKind, error) {
	var keys map[string]*json.RawMessage
	if err := json.Unmarshal(buf, &keys); err != nil {
		return elementsRequest, err
	}
	if _, ok := keys["setA"]; ok {
		return elementsRequest, nil
	}
	if _, ok := keys["textA"]; ok {
		return textRequest, nil
	}
	return elementsRequest, fmt.Errorf("unknown request schema")
}

func (handler proveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logging.Logger().Info().Msg("received prove request")
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		logging.Logger().Info().Msg("error reading request body")
		logging.Logger().Info().Msg(err.Error())
		malformedBodyError(err).send(w)
		return
	}

	kind, err := parseRequestKind(buf)
	if err != nil {
		logging.Logger().Info().Msg("error parsing request schema")
		logging.Logger().Info().Msg(err.Error())
		malformedBodyError(err).send(w)
		return
	}

	var response interface{}
	var proofError *Error

	switch kind {
	case elementsRequest:
		response, proofError = handler.psiProof(buf)
	case textRequest:
		response, proofError = handler.psiTextProof(buf)
	}

	if proofError != nil {
		logging.Logger().Info().Str("code", proofError.Code).Msg(proofError.Message)
		proofError.send(w)
		return
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("error marshalling response")
		unexpectedError(err).send(w)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, err = w.Write(responseBytes)

	if err != nil {
		logging.Logger().Error().Err(err).Msg("error writing response")
	}
}

func (handler proveHandler) findSystem(setASize uint32, setBSize uint32) *prover.ProvingSystem {
	for _, system := range handler.systems {
		if system.SetASize == setASize && system.SetBSize == setBSize {
			return system
		}
	}
	return nil
}

func (handler proveHandler) psiProof(buf []byte) (*prover.Proof, *Error) {
	var params prover.PsiParameters
	err := json.Unmarshal(buf, &params)
	if err != nil {
		logging.Logger().Info().Msg("error Unmarshal")
		logging.Logger().Info().Msg(err.Error())
		return nil, malformedBodyError(err)
	}

	ps := handler.findSystem(params.SetASize(), params.SetBSize())
	if ps == nil {
		return nil, provingError(fmt.Errorf("no proving system for set sizes %d and %d", params.SetASize(), params.SetBSize()))
	}

	proof, err := ps.ProvePsi(&params)
	if err != nil {
		logging.Logger().Err(err).Msg("error during proof generation")
		return nil, provingError(err)
	}
	return proof, nil
}

// TextProofRequest proves over raw strings. The server encodes them, and
// when intersectionSize is omitted it fills in the true cardinality of the
// encoded sets before proving.
type TextProofRequest struct {
	TextA            []string `json:"textA"`
	TextB            []string `json:"textB"`
	IntersectionSize *uint32  `json:"intersectionSize"`
	TextHash         string   `json:"textHash"`
}

type TextProofResponse struct {
	IntersectionSize uint32        `json:"intersectionSize"`
	Proof            *prover.Proof `json:"proof"`
}

func (handler proveHandler) psiTextProof(buf []byte) (*TextProofResponse, *Error) {
	var request TextProofRequest
	err := json.Unmarshal(buf, &request)
	if err != nil {
		logging.Logger().Info().Msg("error Unmarshal")
		logging.Logger().Info().Msg(err.Error())
		return nil, malformedBodyError(err)
	}

	if len(request.TextA) == 0 || len(request.TextB) == 0 {
		return nil, malformedBodyError(fmt.Errorf("textA and textB must not be empty"))
	}

	encoder := handler.encoder
	if request.TextHash != "" {
		encoder, err = encoding.NewEncoder(request.TextHash)
		if err != nil {
			return nil, malformedBodyError(err)
		}
	}

	setA, err := encoder.Set(textValues(request.TextA))
	if err != nil {
		return nil, malformedBodyError(err)
	}
	setB, err := encoder.Set(textValues(request.TextB))
	if err != nil {
		return nil, malformedBodyError(err)
	}

	intersectionSize := prover.IntersectionCount(setA, setB)
	if request.IntersectionSize != nil {
		intersectionSize = *request.IntersectionSize
	}

	params := prover.PsiParameters{
		SetA:             setA,
		SetB:             setB,
		IntersectionSize: intersectionSize,
	}

	ps := handler.findSystem(params.SetASize(), params.SetBSize())
	if ps == nil {
		return nil, provingError(fmt.Errorf("no proving system for set sizes %d and %d", params.SetASize(), params.SetBSize()))
	}

	proof, err := ps.ProvePsi(&params)
	if err != nil {
		logging.Logger().Err(err).Msg("error during proof generation")
		return nil, provingError(err)
	}

	return &TextProofResponse{IntersectionSize: intersectionSize, Proof: proof}, nil
}

func textValues(tokens []string) []encoding.Value {
	values := make([]encoding.Value, len(tokens))
	for i, token := range tokens {
		values[i] = encoding.TextValue(token)
	}
	return values
}

func (handler healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	logging.Logger().Info().Msg("received health check request")
	responseBytes, err := json.Marshal(map[string]string{"status": "ok"})
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(responseBytes)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("error writing response")
	}
}
