package apiclient

import "rentalweb/internal/domain"

func errMissing(what string) error {
	return domain.UpstreamError{Msg: "the rental service response is missing the " + what}
}
