package careermentor

type ResponseType string

const (
	ResponseTypeMessage     ResponseType = "message"
	ResponseTypePartialText ResponseType = "partial-text"
	ResponseTypeUpdate      ResponseType = "update"
	ResponseTypeEnd         ResponseType = "end"
	ResponseTypeError       ResponseType = "error"
)

// Response represents a communication unit from the Session to the caller/UI.
type Response struct {
	Content string
	Type    ResponseType
}
