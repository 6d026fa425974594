// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logic - applies decoded transactions to the ledger
//
// every transaction runs inside one ledger transaction: an effect
// routine either commits all of its writes or, on any error, none of
// them.  transactions must be executed in block then index order.
package logic

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/elysiumd/chain"
	"github.com/bitmark-inc/elysiumd/crowdsale"
	"github.com/bitmark-inc/elysiumd/dex"
	"github.com/bitmark-inc/elysiumd/fault"
	"github.com/bitmark-inc/elysiumd/feature"
	"github.com/bitmark-inc/elysiumd/sigma"
	"github.com/bitmark-inc/elysiumd/storage"
	"github.com/bitmark-inc/elysiumd/transaction"
	"github.com/bitmark-inc/elysiumd/transactionrecord"
	"github.com/bitmark-inc/logger"
)

// index used for the end of block housekeeping journal entry, after
// every transaction of the block
const endOfBlockIndex = ^uint32(0)

// Executor - the state transition function of the protocol
type Executor struct {
	log      *logger.L
	ledger   storage.Ledger
	params   *chain.Params
	verifier sigma.ProofVerifier
	metrics  *metrics
}

// New - create an executor over a ledger
//
// verifier may be nil, in which case every spend is rejected; a nil
// registerer leaves the metrics unregistered
func New(log *logger.L, ledger storage.Ledger, params *chain.Params, verifier sigma.ProofVerifier, registerer prometheus.Registerer) *Executor {
	return &Executor{
		log:      log,
		ledger:   ledger,
		params:   params,
		verifier: verifier,
		metrics:  newMetrics(registerer),
	}
}

// Execute - apply one transaction
//
// returns zero on success or a negative result code; a negative
// result leaves the consensus state unchanged, only the history
// records the rejection
func (e *Executor) Execute(tx *transaction.Transaction) int {
	started := time.Now()

	typeName := "unknown"
	if head, ok := tx.Header(); ok {
		typeName = head.Type.String()
	}

	code := e.execute(tx)
	e.metrics.observe(typeName, code, started)
	return code
}

func (e *Executor) execute(tx *transaction.Transaction) int {
	if tx.IsRpcOnly() {
		e.log.Warnf("tx: %s locked: %s", tx.Txid(), fault.ErrLogicLocked)
		return ResultLocked
	}
	if !tx.Decoded() {
		e.log.Warnf("tx: %s not decoded: %v", tx.Txid(), tx.DecodeError())
		return ResultNotDecoded
	}
	if tx.Executed() {
		e.log.Warnf("tx: %s claim error: %s", tx.Txid(), fault.ErrAlreadyExecuted)
		return ResultAlreadyExecuted
	}

	payload := tx.Payload()
	head := payload.Head()

	if _, ok := payload.(*transactionrecord.Unsupported); ok {
		if err := tx.Claim(); nil != err {
			return ResultAlreadyExecuted
		}
		e.log.Infof("tx: %s type: %d version: %d is not executable", tx.Txid(), head.Type, head.Version)
		return ResultUnsupported
	}

	// the record is only claimed once the ledger is open so a busy
	// ledger leaves it free to be executed again
	trx, err := e.ledger.Begin(tx.Block(), tx.Index())
	if nil != err {
		e.log.Errorf("tx: %s begin error: %s", tx.Txid(), err)
		return ResultLedgerBusy
	}
	if err := tx.Claim(); nil != err {
		trx.Abort()
		e.log.Warnf("tx: %s claim error: %s", tx.Txid(), err)
		return ResultAlreadyExecuted
	}

	return e.run(trx, tx)
}

// run the effect routine in an open ledger transaction and finish it
func (e *Executor) run(trx storage.Transaction, tx *transaction.Transaction) int {
	payload := tx.Payload()
	head := payload.Head()

	if !e.isTransactionTypeAllowed(trx, tx.Block(), payloadEcosystem(payload), head.Type, head.Version) {
		trx.Abort()
		e.log.Infof("tx: %s %s version: %d not allowed at block: %d", tx.Txid(), head.Type, head.Version, tx.Block())
		e.putRejection(tx, ResultTypeNotAllowed)
		return ResultTypeNotAllowed
	}

	err := e.apply(trx, tx)
	if nil != err {
		trx.Abort()
		code := ResultCode(err)
		e.log.Infof("tx: %s %s rejected: %s  code: %d", tx.Txid(), head.Type, err, code)
		e.putRejection(tx, code)
		return code
	}

	putHistory(trx, executedAt(tx, ResultSuccess))

	if err := trx.Commit(); nil != err {
		e.log.Criticalf("tx: %s commit error: %s", tx.Txid(), err)
		return ResultCommitFailed
	}
	e.log.Debugf("tx: %s %s applied at: %s", tx.Txid(), head.Type, tx.Position())
	return ResultSuccess
}

// record a rejection at the position of the transaction
//
// the effect routine's writes were aborted so this is a separate
// ledger transaction; it is journaled like any other and so is
// removed by a rollback
func (e *Executor) putRejection(tx *transaction.Transaction, code int) {
	trx, err := e.ledger.Begin(tx.Block(), tx.Index())
	if nil != err {
		e.log.Errorf("tx: %s history begin error: %s", tx.Txid(), err)
		return
	}
	putHistory(trx, executedAt(tx, code))
	if err := trx.Commit(); nil != err {
		e.log.Errorf("tx: %s history commit error: %s", tx.Txid(), err)
	}
}

// dispatch to the single effect routine of a payload
func (e *Executor) apply(h storage.Handle, tx *transaction.Transaction) error {
	switch p := tx.Payload().(type) {

	case *transactionrecord.SimpleSend:
		return e.simpleSend(h, tx, p)

	case *transactionrecord.SendToOwners:
		return e.sendToOwners(h, tx, p)

	case *transactionrecord.SendAll:
		return e.sendAll(h, tx, p)

	case *transactionrecord.TradeOffer:
		return e.tradeOffer(h, tx, p)

	case *transactionrecord.AcceptOfferBTC:
		return e.acceptOffer(h, tx, p)

	case *transactionrecord.MetaDExTrade:
		return e.metaDExTrade(h, tx, p)

	case *transactionrecord.MetaDExCancelPrice:
		return e.metaDExCancelPrice(h, tx, p)

	case *transactionrecord.MetaDExCancelPair:
		return e.metaDExCancelPair(h, tx, p)

	case *transactionrecord.MetaDExCancelEcosystem:
		return e.metaDExCancelEcosystem(h, tx, p)

	case *transactionrecord.CreatePropertyFixed:
		return e.createPropertyFixed(h, tx, p)

	case *transactionrecord.CreatePropertyVariable:
		return e.createPropertyVariable(h, tx, p)

	case *transactionrecord.CloseCrowdsale:
		return e.closeCrowdsale(h, tx, p)

	case *transactionrecord.CreatePropertyManaged:
		return e.createPropertyManaged(h, tx, p)

	case *transactionrecord.GrantTokens:
		return e.grantTokens(h, tx, p)

	case *transactionrecord.RevokeTokens:
		return e.revokeTokens(h, tx, p)

	case *transactionrecord.ChangeIssuer:
		return e.changeIssuer(h, tx, p)

	case *transactionrecord.EnableFreezing:
		return e.enableFreezing(h, tx, p)

	case *transactionrecord.DisableFreezing:
		return e.disableFreezing(h, tx, p)

	case *transactionrecord.FreezeTokens:
		return e.freezeTokens(h, tx, p)

	case *transactionrecord.UnfreezeTokens:
		return e.unfreezeTokens(h, tx, p)

	case *transactionrecord.SimpleSpend:
		return e.simpleSpend(h, tx, p)

	case *transactionrecord.CreateDenomination:
		return e.createDenomination(h, tx, p)

	case *transactionrecord.SimpleMint:
		return e.simpleMint(h, tx, p)

	case *transactionrecord.Deactivation:
		return e.deactivation(h, tx, p)

	case *transactionrecord.Activation:
		return e.activation(h, tx, p)

	case *transactionrecord.Alert:
		return e.alert(h, tx, p)

	default:
		return fault.ErrUnexecutable
	}
}

// ExpireBlock - end of block housekeeping
//
// releases expired DEx accepts, drops expired alerts and closes
// crowdsales whose deadline has passed
func (e *Executor) ExpireBlock(block int, blockTime int64) error {
	trx, err := e.ledger.Begin(block, endOfBlockIndex)
	if nil != err {
		return err
	}

	accepts, err := dex.Expire(trx, block)
	if nil != err {
		trx.Abort()
		return err
	}

	alerts := feature.ExpireAlerts(trx, block, blockTime)

	closed := 0
	for _, c := range crowdsale.Active(trx) {
		if blockTime <= c.Deadline {
			continue
		}
		if err := crowdsale.Close(trx, c.Issuer); nil != err {
			trx.Abort()
			return err
		}
		closed += 1
	}

	if err := trx.Commit(); nil != err {
		return err
	}
	if accepts+alerts+closed > 0 {
		e.log.Infof("block: %d expired accepts: %d  alerts: %d  crowdsales: %d", block, accepts, alerts, closed)
	}
	return nil
}
