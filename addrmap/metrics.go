// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package addrmap

import "github.com/ethereum/go-ethereum/metrics"

var (
	unchangedCounter    = metrics.NewRegisteredCounter("addrmap/resolve/unchanged", nil)
	computedCounter     = metrics.NewRegisteredCounter("addrmap/resolve/computed", nil)
	chainCounter        = metrics.NewRegisteredCounter("addrmap/resolve/chain", nil)
	storeCounter        = metrics.NewRegisteredCounter("addrmap/resolve/store", nil)
	failureCounter      = metrics.NewRegisteredCounter("addrmap/resolve/failure", nil)
	inconsistentCounter = metrics.NewRegisteredCounter("addrmap/resolve/inconsistent", nil)
)

func markOutcome(o Outcome) {
	switch o {
	case OutcomeUnchanged:
		unchangedCounter.Inc(1)
	case OutcomeComputed:
		computedCounter.Inc(1)
	case OutcomeFromChain:
		chainCounter.Inc(1)
	case OutcomeFromStore:
		storeCounter.Inc(1)
	}
}
