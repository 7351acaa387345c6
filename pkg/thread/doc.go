// Package thread manages the connectivity lifecycle of a Thread mesh
// interface on a constrained device.
//
// A Manager sits between the native Thread stack (the Stack interface) and
// the rest of the device layer. It tracks whether the stack is initialized
// and attached, translates native role notifications into device events,
// owns the active operational dataset and keeps the registry of SRP
// services the device advertises on the mesh.
//
// # Ownership
//
// A Manager is not safe for concurrent use. All operations are expected to
// run on one host work queue (the Scheduler passed in Config), the same
// queue on which deferred attach reports are posted. Native role
// notifications arrive on arbitrary goroutines and are marshaled onto the
// Scheduler before they touch Manager state.
//
// # Usage
//
//	loop := eventloop.New(eventloop.Config{})
//	mgr, err := thread.NewManager(stack, thread.Config{
//		Scheduler:  loop,
//		Poster:     loop,
//		SRPEnabled: true,
//		Logger:     slog.Default(),
//	})
//	if err != nil {
//		return err
//	}
//	loop.Start()
//	err = loop.CallErr(ctx, mgr.Init)
//
// # Attach
//
// AttachToNetwork disables the network, applies the dataset and, if the
// dataset is commissioned, enables the network again. The supplied
// ConnectCallback is wrapped in a Completion and invoked at most once, from
// a work item posted on the Scheduler, never from inside the call that
// started the attach. A later AttachToNetwork supersedes the pending
// callback, which is then dropped without being invoked.
package thread
