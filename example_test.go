// SPDX-License-Identifier: GPL-3.0-or-later

package xfrm_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/netip"
	"os"
	"time"

	"github.com/ipnet-go/xfrm"
	"github.com/ipnet-go/xfrm/xfrmmsg"
)

// This example shows how to install an IPsec policy protecting the
// traffic between two subnets with ESP in tunnel mode.
func Example_policyAdd() {
	// Create context with an overall timeout for the exchange. The
	// caller controls timeouts externally, the library never modifies
	// the context.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Dial NETLINK_XFRM. The handle is cheap and shareable; the conn
	// must be closed when done.
	h, conn, err := xfrm.Dial(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Optionally emit structured logs for each request.
	h.Logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// Draft the policy: traffic from 10.1.0.0/16 to 10.2.0.0/16 goes
	// through an ESP tunnel between the two gateways.
	req, err := h.Policy().Add(
		netip.MustParsePrefix("10.1.0.0/16"),
		netip.MustParsePrefix("10.2.0.0/16"))
	if err != nil {
		log.Fatal(err)
	}
	tmpl := xfrmmsg.UserTemplate{Mode: xfrmmsg.ModeTunnel, Reqid: 1}
	tmpl.ID.Proto = xfrmmsg.ProtoESP
	tmpl.SetSource(netip.MustParseAddr("192.0.2.1"))
	tmpl.SetDestination(netip.MustParseAddr("192.0.2.2"))

	err = req.
		Direction(xfrmmsg.DirOut).
		Action(xfrmmsg.ActionAllow).
		AddTemplate(tmpl).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

// This example shows how to install the security association the policy
// template above refers to.
func Example_stateAdd() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, conn, err := xfrm.Dial(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	crypt, err := xfrmmsg.NewAlgo("cbc(aes)", make([]byte, 16))
	if err != nil {
		log.Fatal(err)
	}
	auth, err := xfrmmsg.NewAlgoAuth("hmac(sha256)", make([]byte, 32), 128)
	if err != nil {
		log.Fatal(err)
	}

	req, err := h.State().Add(
		netip.MustParseAddr("192.0.2.1"),
		netip.MustParseAddr("192.0.2.2"))
	if err != nil {
		log.Fatal(err)
	}
	err = req.
		SPI(0x1000).
		Protocol(xfrmmsg.ProtoESP).
		Mode(xfrmmsg.ModeTunnel).
		Reqid(1).
		Crypt(crypt).
		AuthTrunc(auth).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

// This example shows how to enumerate the installed security
// associations at the consumer's pace.
func Example_stateDump() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, conn, err := xfrm.Dial(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ds, err := h.State().GetDump().Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer ds.Close()

	for {
		sa, err := ds.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("spi %#x reqid %d", sa.Info.ID.SPI, sa.Info.Reqid)
	}
}
