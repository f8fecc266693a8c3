package hostimport

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/tetratelabs/wazero/api"

	"github.com/aidoku-host/aidoku-host/internal/descriptor"
	"github.com/aidoku-host/aidoku-host/internal/engine"
	"github.com/aidoku-host/aidoku-host/internal/hostimport/jsonimport"
	"github.com/aidoku-host/aidoku-host/internal/memaccess"
	"github.com/aidoku-host/aidoku-host/internal/reqstore"
)

// NetNamespace implements the blocking HTTP surface (spec §4.4.4). send
// is the design's one synchronous suspension point (spec §5); everything
// else here only mutates the request store.
func NetNamespace(st *State) engine.Namespace {
	return engine.Namespace{
		Name: "net",
		Functions: []engine.HostFunc{
			{
				Name: "init", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					method := reqstore.MethodFromCode(argI32(stack, 0))
					setI32(stack, 0, st.Requests.Init(method))
				},
			},
			{
				Name: "close", ParamTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					st.Requests.Remove(argI32(stack, 0))
				},
			},
			{
				Name:       "set_url",
				ParamTypes: types(3, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					url := memaccess.New(mod.Memory()).ReadString(argU32(stack, 1), argU32(stack, 2))
					st.Requests.Mutate(argI32(stack, 0), func(r *reqstore.Request) {
						r.URL = &url
					})
				},
			},
			{
				Name:       "set_header",
				ParamTypes: types(5, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					acc := memaccess.New(mod.Memory())
					key := acc.ReadString(argU32(stack, 1), argU32(stack, 2))
					val := acc.ReadString(argU32(stack, 3), argU32(stack, 4))
					st.Requests.Mutate(argI32(stack, 0), func(r *reqstore.Request) {
						if r.Headers == nil {
							r.Headers = make(map[string]*string)
						}
						r.Headers[key] = &val
					})
				},
			},
			{
				Name:       "set_body",
				ParamTypes: types(3, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					body, _ := memaccess.New(mod.Memory()).ReadBytes(argU32(stack, 1), argU32(stack, 2))
					st.Requests.Mutate(argI32(stack, 0), func(r *reqstore.Request) {
						r.Body = body
					})
				},
			},
			{
				Name: "send", ParamTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					st.send(argI32(stack, 0))
				},
			},
			{
				Name: "get_data_size", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					req, ok := st.Requests.Get(argI32(stack, 0))
					if !ok || req.Response == nil {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					setI32(stack, 0, int32(len(req.Response.Data)))
				},
			},
			{
				Name:       "get_data",
				ParamTypes: types(3, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					req, ok := st.Requests.Get(argI32(stack, 0))
					if !ok || req.Response == nil {
						return
					}
					size := argU32(stack, 2)
					data := req.Response.Data
					if uint32(len(data)) > size {
						data = data[:size]
					}
					memaccess.New(mod.Memory()).WriteBytes(data, argU32(stack, 1))
				},
			},
			{
				Name: "json", ParamTypes: types(1, i32Type), ResultTypes: types(1, i32Type),
				Func: func(ctx context.Context, mod api.Module, stack []uint64) {
					req, ok := st.Requests.Get(argI32(stack, 0))
					if !ok || req.Response == nil {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					v, err := jsonimport.Parse(req.Response.Data)
					if err != nil {
						setI32(stack, 0, descriptor.NoDescriptor)
						return
					}
					setI32(stack, 0, st.Values.Allocate(v))
				},
			},
		},
	}
}

// send performs the request synchronously against st.httpClient. A
// request that cannot be built, a transport failure, or an unreadable
// body yields Response{400, nil}, per spec §4.4.4 and §7. An unknown id
// or an unset URL is a no-op: no response is recorded.
func (st *State) send(id int32) {
	req, ok := st.Requests.Get(id)
	if !ok || req.URL == nil {
		return
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequest(req.Method.String(), *req.URL, body)
	if err != nil {
		st.Requests.Mutate(id, func(r *reqstore.Request) {
			r.Response = &reqstore.Response{StatusCode: 400, Data: nil}
		})
		return
	}
	for k, v := range req.Headers {
		if v != nil {
			httpReq.Header.Set(k, *v)
		}
	}

	resp, err := st.httpClient.Do(httpReq)
	if err != nil {
		st.Log.Tracef("net.send(%d) -> transport error: %v", id, err)
		st.Requests.Mutate(id, func(r *reqstore.Request) {
			r.Response = &reqstore.Response{StatusCode: 400, Data: nil}
		})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		st.Requests.Mutate(id, func(r *reqstore.Request) {
			r.Response = &reqstore.Response{StatusCode: 400, Data: nil}
		})
		return
	}

	st.Log.Tracef("net.send(%d) -> %d", id, resp.StatusCode)
	st.Requests.Mutate(id, func(r *reqstore.Request) {
		r.Response = &reqstore.Response{StatusCode: int32(resp.StatusCode), Data: data}
	})
}
