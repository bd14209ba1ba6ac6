package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "cipherkit.v1.Cipher"

// CipherRequest names a cipher, its key and the text to transform. Key is a
// password for vigenere, a 26-letter alphabet for substitution and a number
// or letter for caesar.
type CipherRequest struct {
	Cipher string `json:"cipher"`
	Key    string `json:"key"`
	Text   string `json:"text"`
}

// CipherResponse carries the transformed text.
type CipherResponse struct {
	Text string `json:"text"`
}

// AttackRequest asks for a ciphertext-only attack. KeyLength, when positive,
// skips Vigenère key length estimation.
type AttackRequest struct {
	Cipher    string `json:"cipher"`
	Text      string `json:"text"`
	KeyLength int    `json:"key_length,omitempty"`
}

// AttackResponse reports the recovered key material and plaintext.
type AttackResponse struct {
	Key       string            `json:"key,omitempty"`
	KeyLength int               `json:"key_length,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
	Plaintext string            `json:"plaintext"`
}

// CipherServer is the server API for the Cipher service.
type CipherServer interface {
	Encrypt(context.Context, *CipherRequest) (*CipherResponse, error)
	Decrypt(context.Context, *CipherRequest) (*CipherResponse, error)
	Attack(context.Context, *AttackRequest) (*AttackResponse, error)
}

// RegisterCipherServer registers srv on s.
func RegisterCipherServer(s grpc.ServiceRegistrar, srv CipherServer) {
	s.RegisterService(&cipherServiceDesc, srv)
}

var cipherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CipherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Encrypt", Handler: encryptHandler},
		{MethodName: "Decrypt", Handler: decryptHandler},
		{MethodName: "Attack", Handler: attackHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cipherkit/v1/cipher",
}

func encryptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CipherRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).Encrypt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Encrypt"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CipherServer).Encrypt(ctx, req.(*CipherRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func decryptHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CipherRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).Decrypt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Decrypt"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CipherServer).Decrypt(ctx, req.(*CipherRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func attackHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AttackRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).Attack(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Attack"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CipherServer).Attack(ctx, req.(*AttackRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin caller for the Cipher service using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Encrypt(ctx context.Context, in *CipherRequest, opts ...grpc.CallOption) (*CipherResponse, error) {
	out := new(CipherResponse)
	if err := c.invoke(ctx, "Encrypt", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Decrypt(ctx context.Context, in *CipherRequest, opts ...grpc.CallOption) (*CipherResponse, error) {
	out := new(CipherResponse)
	if err := c.invoke(ctx, "Decrypt", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Attack(ctx context.Context, in *AttackRequest, opts ...grpc.CallOption) (*AttackResponse, error) {
	out := new(AttackResponse)
	if err := c.invoke(ctx, "Attack", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
