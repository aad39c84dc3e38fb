package errx

import "net/http"

// WrapDirectory wraps contact directory read failures.
func WrapDirectory(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, DirectoryErrorMessage)
}

// WrapInference wraps language model invocation failures.
func WrapInference(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, InferenceErrorMessage)
}

// WrapKnowledge wraps knowledge source failures.
func WrapKnowledge(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, KnowledgeErrorMessage)
}

// WrapMail wraps mail transport failures.
func WrapMail(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, MailErrorMessage)
}

// WrapDraftContract wraps a violation of the drafted email output contract.
func WrapDraftContract(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusUnprocessableEntity, DraftContractMessage)
}
