package regulation

// Fixed article text of the regulation. Placeholders are filled by GenerateText in order:
// distance threshold, rate table rows, era date, company name and representative.
const (
	articlesBeforeDistance = `出張旅費規程

（目的）
第１条　この規程は、役員または従業員が社命により、出張する場合の、旅費について定めたものである。

（適用範囲）
第２条　この規程は、役員及び全ての従業員について適用する。

（旅費の種類）
第３条　この規程に基づく旅費とは、出張日当、交通費、宿泊料、支度料の四種とし、その支給基準は第７条規定のとおりとする。ただし、交通費及び宿泊料についてはそれぞれ実費精算とすることができる。

（出張の定義）
第４条　出張とは、従業員が自宅または通常の勤務地を起点として、片道`

	articlesBeforeRateTable = `ｋｍ以上の目的地に移動し、職務を遂行するものをいう。

（出張の承認）
第５条　従業員が出張を行う場合は、事前に所属長の承認を得なければならない。ただし、緊急の場合は事後承認とすることができる。

（出張の区分）
第６条　出張は、以下のとおり区分する。
　　　　１　国内出張
　　　　　国内出張とは、日本国内の用務先に赴く出張であり、所属長（または代表者）が認めたものとする。当日中に帰着することが可能なものは、日帰り出張として出張日当と交通費日当（実費精算可）、宿泊を伴う出張は、出張日当と交通費日当（実費精算可）、宿泊日当（実費精算可）を第７条に定める旅費を支給する。日帰り出張は1日、1泊2日は2日と日数を計算する。
　　　　２　海外出張
　　　　　海外出張とは、日本国外の地域への宿泊を伴う出張であり、所属長（または代表者）が認めたものとする。出張日当と交通費日当（実費精算可）、宿泊日当（実費精算可）に加えて、支度料を第７条に定める旅費を支給する。

（旅費一覧）
第７条　旅費は、以下のとおり役職に応じて支給する。
（円）
	国内出張	海外出張
役職	出張日当	宿泊料	交通費	出張日当	宿泊料	支度料	交通費
`

	articlesAfterRateTable = `

（交通機関）
第８条　利用する交通手段は、原則として、鉄道、船舶、飛行機、バスとする。
　　　　２　前項に関わらず、会社が必要と認めた場合は、タクシーまたは社有の自動車を利用できるものとする。

（旅費の支給方法）
第９条　旅費は、原則として出張終了後に精算により支給する。ただし、必要に応じて概算払いを行うことができる。

（規程の改廃）
第１０条　本規程の改廃は、取締役会の決議により行う。

（附則）
第１１条　本規程は、令和`
)
