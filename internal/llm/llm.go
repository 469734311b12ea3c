package llm

import "context"

// Request 描述发送给大模型的一次补全请求。
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	// JSON 要求模型只返回一个 JSON 对象。
	JSON bool
}

// Response 是大模型返回的原始文本。
type Response struct {
	Content string
	Model   string
}

// Client 定义了调用大模型的统一接口。
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
