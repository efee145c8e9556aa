package remote

import "errors"

var (
	// ErrTransport запрос не дошел до сервера или ответ не удалось прочитать
	ErrTransport = errors.New("transport failure")
	// ErrRejected сервер ответил {success:false}
	ErrRejected = errors.New("rejected by server")
)
