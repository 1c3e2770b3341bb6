package page

// SampleHTML is the host page shown when no page path is configured. It is
// long enough to scroll past the collapse offset on a small terminal.
const SampleHTML = `<!doctype html>
<html>
<head><title>Night Trains Are Back</title></head>
<body>
<article>
<h1>Night Trains Are Back</h1>
<p><em>How sleeper services returned to European rails, and what it is like to ride one.</em></p>
<p>For most of the last two decades the overnight train looked like a relic. Budget airlines undercut
it on price, high-speed lines undercut it on time, and operators quietly retired the couchette cars.
Then, almost all at once, the map started filling in again.</p>
<h2>A short history of the decline</h2>
<p>Sleeper services are expensive to run. A carriage that carries sixty seated passengers by day
carries perhaps thirty at night, and it spends the daytime parked. Track access charges are levied per
kilometre regardless of how many people are asleep on board.</p>
<p>By the mid 2010s many national operators had concluded that the numbers would never work. Routes
that had run for generations were cut with a few months' notice.</p>
<h2>What changed</h2>
<ul>
<li>Travellers started counting the carbon cost of short flights.</li>
<li>One operator bought up retired rolling stock and proved that a well-run network could pay its way.</li>
<li>New open-access companies arrived with <a href="https://example.com/startups">leaner business models</a>.</li>
</ul>
<p>None of these alone would have been enough. Together they turned a niche into a market.</p>
<blockquote><p>You board in one city, read for an hour, sleep, and wake up somewhere else. Nothing about
flying comes close to that.</p></blockquote>
<h2>Riding the sleeper</h2>
<p>Boarding is unhurried. There is no security queue; you find your carriage, show a ticket, and an
attendant points you to a compartment. Seats fold into bunks, a small basin hides under a lid, and
breakfast arrives on a tray about half an hour before the final stop.</p>
<p>The rhythm of the track is louder than you expect for the first twenty minutes and then it
disappears. Stations pass as pools of orange light. Somewhere after midnight the train stands for a
long time while locomotives are swapped at a border.</p>
<h3>Practical tips</h3>
<ol>
<li>Book a private compartment if you are a light sleeper.</li>
<li>Bring a bottle of water; the dining car closes early.</li>
<li>Keep valuables in the bunk with you.</li>
<li>Check whether breakfast is included before you pay extra for it.</li>
</ol>
<h2>Where it goes next</h2>
<p>Operators are ordering new sleeper carriages for the first time in decades, with capsules for solo
travellers and accessible compartments. Some routes that vanished a decade ago are scheduled to
return, and a few entirely new ones are being planned.</p>
<p>Whether the revival lasts will depend on ticket prices, on track access rules, and on whether
enough travellers decide that arriving rested is worth a slower journey.</p>
<hr>
<p>Filed under <code>travel</code>, <code>rail</code>.</p>
</article>
</body>
</html>
`
